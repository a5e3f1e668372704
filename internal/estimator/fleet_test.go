package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateFleetSlowestSubWins(t *testing.T) {
	est := New(flatTables(t))

	input := FleetInput{
		FCID:        "123",
		FCName:      "Deep Divers",
		TargetLevel: 25,
		Submarines: []SubmarineProfile{
			{Name: "Fast", Level: 20, RouteKnown: true},
			{Name: "Slow", Level: 1, RouteKnown: true},
			{Name: "Middle", Level: 10, RouteKnown: true},
			{Name: "Done", Level: 25, RouteKnown: true},
		},
	}

	result := est.EstimateFleet(input)

	assert.Equal(t, 1, result.SubsAtTarget)
	assert.Equal(t, 3, result.SubsBelowTarget)
	assert.Equal(t, 4, result.TotalSubs)
	assert.Equal(t, 0, result.PendingUnlocks)
	assert.Equal(t, "Slow", result.SlowestSub)

	// Fleet completion equals the slowest submarine's estimate.
	var slow SubmarineEstimate
	for _, sub := range result.Submarines {
		if sub.SubmarineName == "Slow" {
			slow = sub
		}
	}
	assert.Equal(t, slow.Estimates[ScenarioExpected], result.Estimates[ScenarioExpected])
}

func TestEstimateFleetAllAtTarget(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateFleet(FleetInput{
		FCID:        "123",
		TargetLevel: 25,
		Submarines: []SubmarineProfile{
			{Name: "One", Level: 25, RouteKnown: true},
			{Name: "Two", Level: 25, RouteKnown: true},
			{Name: "Three", Level: 25, RouteKnown: true},
			{Name: "Four", Level: 25, RouteKnown: true},
		},
	})

	assert.Equal(t, 4, result.SubsAtTarget)
	assert.Empty(t, result.SlowestSub)
	for _, scenario := range Scenarios {
		assert.Equal(t, Estimate{}, result.Estimates[scenario])
	}
}

func TestEstimateFleetProjectsPendingSlots(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateFleet(FleetInput{
		FCID:        "123",
		TargetLevel: 25,
		Submarines: []SubmarineProfile{
			{Name: "Only", Level: 25, RouteKnown: true},
		},
	})

	assert.Equal(t, 3, result.PendingUnlocks)
	require.Len(t, result.Submarines, 4)

	var future []SubmarineEstimate
	for _, sub := range result.Submarines {
		if sub.FutureSlot {
			future = append(future, sub)
		}
	}
	require.Len(t, future, 3)

	// Later slots carry longer unlock chains, so their estimates grow.
	for i := 1; i < len(future); i++ {
		prev := future[i-1].Estimates[ScenarioExpected].Hours
		next := future[i].Estimates[ScenarioExpected].Hours
		assert.Greater(t, next, prev)
	}

	// Projections dominate the fleet completion since the real sub is done.
	assert.Contains(t, result.SlowestSub, "Slot 4")
}

func TestEstimateFleetEmptyFleet(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateFleet(FleetInput{
		FCID:        "123",
		FCName:      "Ghost Fleet",
		TargetLevel: 25,
	})

	// Nothing to project from: all slots pending, completion unknown.
	assert.Equal(t, MaxFleetSize, result.PendingUnlocks)
	assert.Equal(t, 0, result.SubsAtTarget)
	assert.Equal(t, 0, result.SubsBelowTarget)
	assert.Empty(t, result.Submarines)
	assert.Empty(t, result.SlowestSub)
	for _, scenario := range Scenarios {
		assert.Equal(t, Estimate{}, result.Estimates[scenario])
	}
}

func TestSlotUnlockHoursShortensWithKnownSectors(t *testing.T) {
	est := New(flatTables(t))

	fresh := est.slotUnlockHours(2, ScenarioOptimistic, nil)
	partial := est.slotUnlockHours(2, ScenarioOptimistic, map[string]bool{"E": true})
	done := est.slotUnlockHours(2, ScenarioOptimistic, map[string]bool{"E": true, "J": true})

	// Two sectors at two voyages each, 14h a voyage, inefficiency applied.
	assert.InDelta(t, 2*2*14*InefficiencyMultiplier, fresh, 1e-9)
	assert.InDelta(t, 2*14*InefficiencyMultiplier, partial, 1e-9)
	assert.Equal(t, 0.0, done)
}

func TestSlotUnlockHoursChainsEarlierSlots(t *testing.T) {
	est := New(flatTables(t))

	// Slot 3 from scratch needs slot 2's chain (E, J) plus its own (N, O).
	fromScratch := est.slotUnlockHours(3, ScenarioOptimistic, nil)
	assert.InDelta(t, 4*2*14*InefficiencyMultiplier, fromScratch, 1e-9)

	// With slot 2's gate discovered, only slot 3's own path remains.
	afterSlot2 := est.slotUnlockHours(3, ScenarioOptimistic, map[string]bool{"J": true})
	assert.InDelta(t, 2*2*14*InefficiencyMultiplier, afterSlot2, 1e-9)
}

func TestSlotUnlockHoursVoyagesPerDiscovery(t *testing.T) {
	est := New(flatTables(t))

	// A sector reveal takes 2, 4 or 10 voyages depending on the scenario.
	perSector := map[Scenario]float64{
		ScenarioOptimistic:  2.0,
		ScenarioExpected:    4.0,
		ScenarioPessimistic: 10.0,
	}

	for scenario, voyages := range perSector {
		hours := est.slotUnlockHours(2, scenario, nil)
		assert.InDelta(t, 2*voyages*14*InefficiencyMultiplier, hours, 1e-9, "scenario %s", scenario)
	}
}
