package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/estimator"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func testAggregator(t *testing.T, fcSettings map[string]FCSettings) (*Aggregator, *Store) {
	t.Helper()

	store := NewStore(nil)
	est := estimator.New(&gamedata.Tables{
		Ranks:  gamedata.FallbackRanks(),
		Phases: gamedata.FallbackPhases(),
	})
	agg := NewAggregator(store, est, map[string]bool{"OJ Farm": true}, fcSettings)
	return agg, store
}

func testSnapshot() *PluginSnapshot {
	return &PluginSnapshot{
		PluginID: "plugin-1",
		Accounts: []AccountSnapshot{
			{
				Nickname: "main",
				FCs: map[int64]FCInfo{
					42: {ID: 42, Name: "Deep Divers", Gil: 90_000_000, FCPoints: 12000},
					77: {ID: 77, Name: "Ghost Fleet"},
				},
				UnlockPlans: map[string]string{"plan-1": "Unlock Everything"},
				Characters: []Character{
					{
						CID:             1001,
						Name:            "Asuna Pahlo",
						World:           "Behemoth",
						FCID:            42,
						Ceruleum:        100,
						RepairKits:      50,
						SubSlots:        2,
						DiveCredits:     2,
						UnlockedSectors: []int{1, 2, 5, 10},
						Submarines: []Submarine{
							{
								Name:        "Alpha",
								Level:       gamedata.MaxLevel,
								RouteName:   "OJ Farm",
								ReturnTime:  testNow.Add(5 * time.Hour),
								Enabled:     true,
								GilPerDay:   50000,
								TanksPerDay: 6,
								KitsPerDay:  2,
							},
							{
								Name:           "Beta",
								Level:          60,
								RouteName:      "Leveling Run",
								UnlockPlanGUID: "plan-1",
								ReturnTime:     testNow.Add(-1 * time.Hour),
								Enabled:        true,
								TanksPerDay:    4,
								KitsPerDay:     1,
							},
						},
					},
					{
						CID:   2002,
						Name:  "Hidden Alt",
						World: "Behemoth",
						FCID:  77,
						Submarines: []Submarine{
							{Name: "Phantom", Level: 50, RouteName: "OJ Farm", ReturnTime: testNow.Add(time.Hour), Enabled: true},
						},
					},
				},
			},
		},
		Timestamp:  testNow,
		ReceivedAt: testNow,
	}
}

func TestBuildDashboardSummaryAndFCs(t *testing.T) {
	agg, store := testAggregator(t, map[string]FCSettings{"77": {FCID: "77", Hidden: true}})
	require.NoError(t, store.SetSnapshot(context.Background(), testSnapshot()))

	data := agg.BuildDashboard(testNow)

	// The hidden FC is gone entirely.
	assert.Equal(t, 1, data.Summary.TotalFCs)
	require.Len(t, data.FCs, 1)

	fc := data.FCs[0]
	assert.Equal(t, "42", fc.FCID)
	assert.Equal(t, "Deep Divers", fc.FCName)
	assert.Equal(t, "Behemoth", fc.World)
	assert.Equal(t, 2, fc.TotalSubs)
	assert.Equal(t, 1, fc.ReadySubs)
	assert.Equal(t, 1, fc.LevelingSubs)
	assert.Equal(t, ModeMixed, fc.Mode)
	assert.Equal(t, 50000.0, fc.GilPerDay)

	assert.Equal(t, 2, data.Summary.TotalSubs)
	assert.Equal(t, 1, data.Summary.ReadySubs)
	assert.Equal(t, 1, data.Summary.VoyagingSubs)
	assert.Equal(t, 1, data.Summary.LevelingSubs)
	assert.Equal(t, 1, data.Summary.FarmingSubs)

	// Submarines come back soonest-return first.
	require.Len(t, data.Submarines, 2)
	assert.Equal(t, "Beta", data.Submarines[0].Name)
	assert.Equal(t, StatusReady, data.Submarines[0].Status)
	assert.Equal(t, "Alpha", data.Submarines[1].Name)
	assert.Equal(t, StatusVoyaging, data.Submarines[1].Status)
	assert.InDelta(t, 5.0, data.Submarines[1].HoursRemaining, 1e-9)
}

func TestBuildDashboardSupplyForecast(t *testing.T) {
	agg, store := testAggregator(t, map[string]FCSettings{"77": {FCID: "77", Hidden: true}})
	require.NoError(t, store.SetSnapshot(context.Background(), testSnapshot()))

	data := agg.BuildDashboard(testNow)
	fc := data.FCs[0]

	// 100 ceruleum at 10/day runs out before 50 kits at 3/day.
	assert.InDelta(t, 10.0, fc.CeruleumPerDay, 1e-9)
	assert.InDelta(t, 3.0, fc.KitsPerDay, 1e-9)
	require.NotNil(t, fc.DaysUntilRestock)
	assert.InDelta(t, 10.0, *fc.DaysUntilRestock, 1e-9)
	assert.Equal(t, "ceruleum", fc.LimitingResource)

	require.NotNil(t, data.Supply.DaysUntilRestock)
	assert.InDelta(t, 10.0, *data.Supply.DaysUntilRestock, 1e-9)
	assert.Equal(t, "ceruleum", data.Supply.LimitingResource)
}

func TestBuildDashboardDiveCredits(t *testing.T) {
	agg, store := testAggregator(t, nil)
	require.NoError(t, store.SetSnapshot(context.Background(), testSnapshot()))

	data := agg.BuildDashboard(testNow)

	var fc *FCSummary
	for i := range data.FCs {
		if data.FCs[i].FCID == "42" {
			fc = &data.FCs[i]
		}
	}
	require.NotNil(t, fc)

	// Slot 3 costs 5 dive credits and the FC only has 2.
	assert.Equal(t, 2, fc.UnlockedSlots)
	assert.Equal(t, 5, fc.DiveCreditsNeeded)
	assert.True(t, fc.NeedsDiveCredits)
}

func TestBuildDashboardDuplicateSubs(t *testing.T) {
	agg, store := testAggregator(t, nil)

	snap := testSnapshot()
	// Second account reports the same submarine name in the same FC.
	snap.Accounts = append(snap.Accounts, AccountSnapshot{
		Nickname: "alt",
		Characters: []Character{
			{
				CID:  3003,
				Name: "Second Seat",
				FCID: 42,
				Submarines: []Submarine{
					{Name: "Alpha", Level: 10, ReturnTime: testNow.Add(time.Hour), Enabled: true},
				},
			},
		},
	})
	require.NoError(t, store.SetSnapshot(context.Background(), snap))

	data := agg.BuildDashboard(testNow)
	for _, fc := range data.FCs {
		if fc.FCID == "42" {
			assert.True(t, fc.HasDuplicateSubs)
		}
	}
}

func TestBuildFleetEstimatesUsesUnlockedSectors(t *testing.T) {
	agg, store := testAggregator(t, map[string]FCSettings{"77": {FCID: "77", Hidden: true}})
	require.NoError(t, store.SetSnapshot(context.Background(), testSnapshot()))

	estimates := agg.BuildFleetEstimates(90, testNow)
	require.Len(t, estimates, 1)

	fleetEst := estimates[0]
	assert.Equal(t, "42", fleetEst.FCID)
	assert.Equal(t, 2, fleetEst.TotalSubs)
	assert.Equal(t, 2, fleetEst.PendingUnlocks)
	assert.Equal(t, 1, fleetEst.SubsAtTarget)
	assert.Equal(t, 1, fleetEst.SubsBelowTarget)
}

func TestFilterForScopes(t *testing.T) {
	agg, store := testAggregator(t, nil)
	require.NoError(t, store.SetSnapshot(context.Background(), testSnapshot()))

	data := agg.BuildDashboard(testNow)
	require.Equal(t, 2, data.Summary.TotalFCs)

	// Unrestricted viewers get the original payload back.
	assert.Same(t, data, FilterForScopes(data, nil))

	scoped := FilterForScopes(data, map[string]bool{"42": true})
	assert.Equal(t, 1, scoped.Summary.TotalFCs)
	require.Len(t, scoped.FCs, 1)
	assert.Equal(t, "42", scoped.FCs[0].FCID)
	for _, sub := range scoped.Submarines {
		assert.Equal(t, "42", sub.FCID)
	}

	empty := FilterForScopes(data, map[string]bool{"99": true})
	assert.Zero(t, empty.Summary.TotalSubs)
	assert.Empty(t, empty.FCs)
}
