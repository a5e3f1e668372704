// Package estimator computes calendar-time estimates for submarine leveling.
//
// The model splits the level range into phase bands, each with an average
// experience yield and voyage duration, then layers discovery-RNG scenarios
// and a real-world inefficiency multiplier on top. All functions are pure over
// the loaded game data tables; identical inputs always produce identical
// output.
package estimator

import (
	"math"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

// Estimate is one scenario's remaining time, in hours and calendar days.
type Estimate struct {
	Hours float64 `json:"hours"`
	Days  float64 `json:"days"`
}

// SubmarineProfile is the estimator's view of one submarine. The fleet layer
// maps its richer state down to this.
type SubmarineProfile struct {
	Name           string
	Level          int
	ExpProgress    float64
	Build          string
	OnUnlockPlan   bool
	UnlockPlanName string
	RouteKnown     bool
	Route          string
	VoyageStatus   string
	HoursRemaining float64
	ReturnTime     *time.Time
}

// SubmarineEstimate is the per-submarine result across all scenarios.
type SubmarineEstimate struct {
	SubmarineName   string                `json:"submarine_name"`
	FCID            string                `json:"fc_id"`
	FCName          string                `json:"fc_name"`
	CurrentLevel    int                   `json:"current_level"`
	TargetLevel     int                   `json:"target_level"`
	AlreadyAtTarget bool                  `json:"already_at_target"`
	RouteUnknown    bool                  `json:"route_unknown,omitempty"`
	FutureSlot      bool                  `json:"is_future_slot,omitempty"`
	UnlockSector    string                `json:"unlock_sector,omitempty"`
	Estimates       map[Scenario]Estimate `json:"estimates"`
	OnUnlockPlan    bool                  `json:"on_unlock_plan"`
	UnlockPlanName  string                `json:"unlock_plan_name"`
	ExpProgress     float64               `json:"exp_progress"`
	Build           string                `json:"build"`
	VoyageStatus    string                `json:"voyage_status"`
	HoursRemaining  float64               `json:"hours_remaining"`
	Route           string                `json:"route"`
	ReturnTime      *time.Time            `json:"return_time"`
}

// Estimator walks the phase bands and rank table to turn level gaps into
// calendar time.
type Estimator struct {
	tables *gamedata.Tables
}

func New(tables *gamedata.Tables) *Estimator {
	return &Estimator{tables: tables}
}

// ExpBetween returns the total experience required to climb from levelA to
// levelB, summing exp-to-next for every level in [levelA, levelB). Levels
// missing from the rank table contribute zero. levelA >= levelB returns 0.
func (e *Estimator) ExpBetween(levelA, levelB int) int {
	if levelA >= levelB {
		return 0
	}

	total := 0
	for level := levelA; level < levelB; level++ {
		total += e.tables.Ranks.ExpToNext(level)
	}
	return total
}

// HoursToLevel returns the base voyage hours needed to level from fromLevel
// to toLevel, before any RNG or inefficiency adjustment. Each phase band is
// clipped to its overlap with [fromLevel, toLevel); the clipped experience is
// converted into voyages at the band's average rate. Levels beyond the
// supported maximum are clamped first.
func (e *Estimator) HoursToLevel(fromLevel, toLevel int) float64 {
	fromLevel = clampLevel(fromLevel)
	toLevel = clampLevel(toLevel)

	if fromLevel >= toLevel {
		return 0
	}

	totalHours := 0.0
	for _, band := range e.tables.Phases {
		if fromLevel >= band.LevelEnd {
			continue
		}
		if toLevel <= band.LevelStart {
			break
		}

		effStart := max(fromLevel, band.LevelStart)
		effEnd := min(toLevel, band.LevelEnd)
		if effStart >= effEnd {
			continue
		}

		bandExp := float64(e.ExpBetween(effStart, effEnd))
		if band.AvgExpPerVoyage <= 0 {
			continue
		}

		voyages := bandExp / band.AvgExpPerVoyage
		totalHours += voyages * band.AvgVoyageHours
	}

	return totalHours
}

// ApplyDiscoveryFactor inflates a base hour count for the cost of failed
// sector discoveries. The band containing level supplies the sensitivity
// factor; lower discovery rates waste more voyage slots, so the inflation is
// nonlinear in the rate. A rate of exactly 1.0 never inflates. When no band
// contains the level a fixed 5% markup stands in.
func (e *Estimator) ApplyDiscoveryFactor(hours float64, level int, discoveryRate float64) float64 {
	if discoveryRate <= 0 || discoveryRate >= 1 {
		return hours
	}

	for _, band := range e.tables.Phases {
		if band.Contains(level) {
			return hours * (1 + band.DiscoveryRNGFactor*(1/discoveryRate-1))
		}
	}

	return hours * unknownBandMarkup
}

// EstimateSubmarine computes the three scenario estimates for one submarine.
// A submarine already at or above the target reports AlreadyAtTarget with
// zero remaining time. A submarine with no assigned route reports
// RouteUnknown instead of numbers. A submarine not following an unlock plan
// is pure farming: discovery RNG does not apply, so all three scenarios
// collapse to the same figure.
func (e *Estimator) EstimateSubmarine(sub SubmarineProfile, targetLevel int) SubmarineEstimate {
	targetLevel = clampLevel(targetLevel)
	currentLevel := clampLevel(sub.Level)

	result := SubmarineEstimate{
		SubmarineName:  sub.Name,
		CurrentLevel:   currentLevel,
		TargetLevel:    targetLevel,
		Estimates:      zeroEstimates(),
		OnUnlockPlan:   sub.OnUnlockPlan,
		UnlockPlanName: sub.UnlockPlanName,
		ExpProgress:    round1(sub.ExpProgress),
		Build:          sub.Build,
		VoyageStatus:   sub.VoyageStatus,
		HoursRemaining: round2(sub.HoursRemaining),
		Route:          sub.Route,
		ReturnTime:     sub.ReturnTime,
	}

	if currentLevel >= targetLevel {
		result.AlreadyAtTarget = true
		return result
	}

	if !sub.RouteKnown {
		result.RouteUnknown = true
		return result
	}

	baseHours := e.HoursToLevel(currentLevel, targetLevel)

	for _, scenario := range Scenarios {
		rate := scenario.DiscoveryRate()
		if !sub.OnUnlockPlan {
			// Fixed farming route, no discovery randomness.
			rate = 1.0
		}

		hours := e.ApplyDiscoveryFactor(baseHours, currentLevel, rate)
		hours *= InefficiencyMultiplier
		result.Estimates[scenario] = Estimate{
			Hours: round2(hours),
			Days:  round1(hours / 24),
		}
	}

	return result
}

// scenarioHours is the full adjusted hour count for one level span and rate.
func (e *Estimator) scenarioHours(fromLevel, toLevel int, rate float64) float64 {
	hours := e.ApplyDiscoveryFactor(e.HoursToLevel(fromLevel, toLevel), fromLevel, rate)
	return hours * InefficiencyMultiplier
}

func zeroEstimates() map[Scenario]Estimate {
	estimates := make(map[Scenario]Estimate, len(Scenarios))
	for _, scenario := range Scenarios {
		estimates[scenario] = Estimate{}
	}
	return estimates
}

func clampLevel(level int) int {
	if level > gamedata.MaxLevel {
		return gamedata.MaxLevel
	}
	if level < 0 {
		return 0
	}
	return level
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
