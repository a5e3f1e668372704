package estimator

// Scenario names one of the three discovery-RNG assumptions an estimate is
// computed under.
type Scenario string

const (
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioExpected    Scenario = "expected"
	ScenarioPessimistic Scenario = "pessimistic"
)

// Scenarios lists all scenarios in display order.
var Scenarios = []Scenario{ScenarioOptimistic, ScenarioExpected, ScenarioPessimistic}

// DiscoveryRate returns this scenario's leveling-RNG assumption, feeding the
// phase-band inflation in ApplyDiscoveryFactor.
func (s Scenario) DiscoveryRate() float64 {
	switch s {
	case ScenarioOptimistic:
		return 1.0
	case ScenarioExpected:
		return 0.75
	case ScenarioPessimistic:
		return 0.55
	default:
		return 0.75
	}
}

// VoyagesPerDiscovery returns the average voyages spent before a targeted
// sector reveals under this scenario. Revealing a specific sector is much
// rarer than the leveling RNG: the assumed chances are 50%, 25% and 10%.
func (s Scenario) VoyagesPerDiscovery() float64 {
	switch s {
	case ScenarioOptimistic:
		return 2.0
	case ScenarioExpected:
		return 4.0
	case ScenarioPessimistic:
		return 10.0
	default:
		return 4.0
	}
}

const (
	// InefficiencyMultiplier accounts for real-world play patterns: delayed
	// dispatches, repairs, suboptimal routing.
	InefficiencyMultiplier = 1.18

	// earlyVoyageHours is the average voyage duration on the shallow sectors
	// traversed while chasing slot-unlock discoveries.
	earlyVoyageHours = 14.0

	// unknownBandMarkup is applied when a level falls outside every phase
	// band, standing in for the band's discovery factor.
	unknownBandMarkup = 1.05

	// MaxFleetSize is the number of submarine slots a Free Company can
	// ultimately unlock.
	MaxFleetSize = 4
)
