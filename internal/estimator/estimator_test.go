package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

// flatTables builds a single phase band over levels 1-25 with a flat
// 10k-exp-per-level rank table, so figures are easy to compute by hand.
func flatTables(t *testing.T) *gamedata.Tables {
	t.Helper()

	ranks := make(gamedata.RankTable)
	for level := 1; level < 25; level++ {
		ranks[level] = 10000
	}

	phases := []gamedata.PhaseBand{
		{LevelStart: 1, LevelEnd: 25, AvgExpPerVoyage: 180000, AvgVoyageHours: 15, DiscoveryRNGFactor: 0.35},
	}

	return &gamedata.Tables{Ranks: ranks, Phases: phases}
}

func TestExpBetween(t *testing.T) {
	est := New(flatTables(t))

	assert.Equal(t, 240000, est.ExpBetween(1, 25))
	assert.Equal(t, 10000, est.ExpBetween(1, 2))
	assert.Equal(t, 0, est.ExpBetween(10, 10))
	assert.Equal(t, 0, est.ExpBetween(20, 10))
}

func TestHoursToLevel(t *testing.T) {
	est := New(flatTables(t))

	// 240000 exp at 180000 per 15h voyage: 20 hours of sailing.
	assert.InDelta(t, 20.0, est.HoursToLevel(1, 25), 1e-9)
	assert.Equal(t, 0.0, est.HoursToLevel(25, 25))
	assert.Equal(t, 0.0, est.HoursToLevel(25, 1))
}

func TestHoursToLevelIsAdditive(t *testing.T) {
	est := New(flatTables(t))

	whole := est.HoursToLevel(1, 25)
	split := est.HoursToLevel(1, 10) + est.HoursToLevel(10, 25)
	assert.InDelta(t, whole, split, 1e-9)
}

func TestApplyDiscoveryFactor(t *testing.T) {
	est := New(flatTables(t))

	// Rate 1.0 never inflates.
	assert.Equal(t, 20.0, est.ApplyDiscoveryFactor(20, 10, 1.0))

	// Rate 0.75 inside the band: 20 * (1 + 0.35*(1/0.75 - 1)).
	assert.InDelta(t, 22.3333333, est.ApplyDiscoveryFactor(20, 10, 0.75), 1e-6)

	// Level outside every band takes the flat markup.
	assert.InDelta(t, 21.0, est.ApplyDiscoveryFactor(20, 100, 0.75), 1e-9)
}

func TestEstimateSubmarineScenarios(t *testing.T) {
	est := New(flatTables(t))

	sub := SubmarineProfile{
		Name:         "Intrepid",
		Level:        1,
		OnUnlockPlan: true,
		RouteKnown:   true,
	}

	result := est.EstimateSubmarine(sub, 25)

	require.False(t, result.AlreadyAtTarget)
	require.False(t, result.RouteUnknown)

	// Base 20h, inefficiency 1.18, expected-rate inflation 1/3 of 0.35.
	assert.InDelta(t, 23.6, result.Estimates[ScenarioOptimistic].Hours, 1e-9)
	assert.InDelta(t, 26.35, result.Estimates[ScenarioExpected].Hours, 1e-9)
	assert.InDelta(t, 30.36, result.Estimates[ScenarioPessimistic].Hours, 1e-9)

	assert.InDelta(t, 1.0, result.Estimates[ScenarioOptimistic].Days, 1e-9)
	assert.InDelta(t, 1.1, result.Estimates[ScenarioExpected].Days, 1e-9)
	assert.InDelta(t, 1.3, result.Estimates[ScenarioPessimistic].Days, 1e-9)

	// Scenario ordering holds.
	assert.Less(t, result.Estimates[ScenarioOptimistic].Hours, result.Estimates[ScenarioExpected].Hours)
	assert.Less(t, result.Estimates[ScenarioExpected].Hours, result.Estimates[ScenarioPessimistic].Hours)
}

func TestEstimateSubmarineFarmingCollapsesScenarios(t *testing.T) {
	est := New(flatTables(t))

	sub := SubmarineProfile{
		Name:       "Steady Earner",
		Level:      1,
		RouteKnown: true,
	}

	result := est.EstimateSubmarine(sub, 25)

	expected := result.Estimates[ScenarioExpected]
	assert.Equal(t, expected, result.Estimates[ScenarioOptimistic])
	assert.Equal(t, expected, result.Estimates[ScenarioPessimistic])
	assert.InDelta(t, 23.6, expected.Hours, 1e-9)
}

func TestEstimateSubmarineAtTarget(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateSubmarine(SubmarineProfile{Name: "Done", Level: 25, RouteKnown: true}, 25)

	assert.True(t, result.AlreadyAtTarget)
	for _, scenario := range Scenarios {
		assert.Equal(t, Estimate{}, result.Estimates[scenario])
	}
}

func TestEstimateSubmarineRouteUnknown(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateSubmarine(SubmarineProfile{Name: "Idle", Level: 1}, 25)

	assert.True(t, result.RouteUnknown)
	assert.False(t, result.AlreadyAtTarget)
	for _, scenario := range Scenarios {
		assert.Equal(t, Estimate{}, result.Estimates[scenario])
	}
}

func TestEstimateSubmarineClampsTarget(t *testing.T) {
	est := New(flatTables(t))

	result := est.EstimateSubmarine(SubmarineProfile{Name: "Ambitious", Level: 1, RouteKnown: true}, gamedata.MaxLevel+50)
	assert.Equal(t, gamedata.MaxLevel, result.TargetLevel)
}

func TestEstimateSubmarineIsDeterministic(t *testing.T) {
	est := New(flatTables(t))

	sub := SubmarineProfile{Name: "Repeatable", Level: 3, OnUnlockPlan: true, RouteKnown: true}

	first := est.EstimateSubmarine(sub, 25)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Estimates, est.EstimateSubmarine(sub, 25).Estimates)
	}
}
