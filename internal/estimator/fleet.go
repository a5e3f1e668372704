package estimator

import (
	"fmt"

	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

// FleetInput describes one Free Company's submarines for fleet estimation.
// UnlockedSectors holds the letters of first-map sectors the FC has already
// discovered, used to shorten pending slot-unlock chains.
type FleetInput struct {
	FCID            string
	FCName          string
	World           string
	TargetLevel     int
	Submarines      []SubmarineProfile
	UnlockedSectors map[string]bool
}

// FleetEstimate is the aggregate leveling estimate for one Free Company.
//
// Completion is the slowest submarine under each scenario, including
// projected submarines for slots not yet unlocked. The slot pipeline here is
// an approximation: in the real game, new slots open only once a submarine
// discovers specific gating sectors, so actual fleet completion is a chain of
// staggered starts. We model each pending slot as "hours to discover its
// gating sector, then hours to level a fresh submarine" rather than
// simulating the full timeline.
type FleetEstimate struct {
	FCID            string                `json:"fc_id"`
	FCName          string                `json:"fc_name"`
	World           string                `json:"world"`
	SubsAtTarget    int                   `json:"subs_at_target"`
	SubsBelowTarget int                   `json:"subs_below_target"`
	TotalSubs       int                   `json:"total_subs"`
	MaxSubs         int                   `json:"max_subs"`
	PendingUnlocks  int                   `json:"pending_unlocks"`
	SlowestSub      string                `json:"slowest_sub,omitempty"`
	Estimates       map[Scenario]Estimate `json:"estimates"`
	Submarines      []SubmarineEstimate   `json:"submarines"`
}

// EstimateFleet estimates every submarine independently and reports the Free
// Company's completion as the slowest one. Submarines already at target do
// not contribute; if everything is at target, completion is immediate.
func (e *Estimator) EstimateFleet(input FleetInput) FleetEstimate {
	targetLevel := clampLevel(input.TargetLevel)

	result := FleetEstimate{
		FCID:       input.FCID,
		FCName:     input.FCName,
		World:      input.World,
		TotalSubs:  len(input.Submarines),
		MaxSubs:    MaxFleetSize,
		Estimates:  zeroEstimates(),
		Submarines: make([]SubmarineEstimate, 0, MaxFleetSize),
	}

	// No visible submarines means every slot is still pending and there is
	// nothing to project a completion from.
	if len(input.Submarines) == 0 {
		result.PendingUnlocks = MaxFleetSize
		return result
	}

	type worst struct {
		hours float64
		name  string
	}
	worstByScenario := make(map[Scenario]worst, len(Scenarios))

	for _, sub := range input.Submarines {
		est := e.EstimateSubmarine(sub, targetLevel)
		est.FCID = input.FCID
		est.FCName = input.FCName

		if est.AlreadyAtTarget {
			result.SubsAtTarget++
		} else {
			result.SubsBelowTarget++
			for _, scenario := range Scenarios {
				hours := est.Estimates[scenario].Hours
				if hours > worstByScenario[scenario].hours {
					worstByScenario[scenario] = worst{hours: hours, name: est.SubmarineName}
				}
			}
		}

		result.Submarines = append(result.Submarines, est)
	}

	// Project submarines for slots this FC has not unlocked yet. Their
	// completion time is the discovery chain plus leveling a fresh hull.
	for _, slot := range gamedata.SlotUnlocks {
		if len(input.Submarines) >= slot.Slot {
			continue
		}

		result.PendingUnlocks++
		future := SubmarineEstimate{
			SubmarineName: fmt.Sprintf("[Slot %d - Discover Sector %s]", slot.Slot, slot.Sector),
			FCID:          input.FCID,
			FCName:        input.FCName,
			TargetLevel:   targetLevel,
			FutureSlot:    true,
			UnlockSector:  slot.Sector,
			Estimates:     zeroEstimates(),
		}

		for _, scenario := range Scenarios {
			unlockHours := e.slotUnlockHours(slot.Slot, scenario, input.UnlockedSectors)
			totalHours := unlockHours + e.scenarioHours(1, targetLevel, scenario.DiscoveryRate())

			future.Estimates[scenario] = Estimate{
				Hours: round2(totalHours),
				Days:  round1(totalHours / 24),
			}
			if totalHours > worstByScenario[scenario].hours {
				worstByScenario[scenario] = worst{hours: totalHours, name: future.SubmarineName}
			}
		}

		result.Submarines = append(result.Submarines, future)
	}

	for _, scenario := range Scenarios {
		w := worstByScenario[scenario]
		result.Estimates[scenario] = Estimate{
			Hours: round2(w.hours),
			Days:  round1(w.hours / 24),
		}
	}
	result.SlowestSub = worstByScenario[ScenarioExpected].name

	return result
}

// slotUnlockHours approximates the voyage hours needed to discover the sector
// gating slotNum. Slot chains build on each other: the path for slot 3
// assumes slot 2's gate is discovered, so when it isn't, the earlier chains
// are prepended. Already-discovered sectors drop out of the chain.
func (e *Estimator) slotUnlockHours(slotNum int, scenario Scenario, unlocked map[string]bool) float64 {
	var needed []string
	for _, slot := range gamedata.SlotUnlocks {
		if slot.Slot > slotNum {
			break
		}
		if slot.Slot < slotNum && unlockedHas(unlocked, slot.Sector) {
			// This chain is complete; later chains start from its gate.
			needed = needed[:0]
			continue
		}
		for _, letter := range slot.Path {
			if !unlockedHas(unlocked, letter) {
				needed = append(needed, letter)
			}
		}
	}

	if len(needed) == 0 {
		return 0
	}

	voyages := float64(len(needed)) * scenario.VoyagesPerDiscovery()
	return voyages * earlyVoyageHours * InefficiencyMultiplier
}

func unlockedHas(unlocked map[string]bool, letter string) bool {
	return unlocked != nil && unlocked[letter]
}
