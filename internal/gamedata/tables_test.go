package gamedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhasesAcceptsFallback(t *testing.T) {
	require.NoError(t, ValidatePhases(FallbackPhases()))
}

func TestValidatePhasesRejectsBadBands(t *testing.T) {
	tests := []struct {
		name   string
		phases []PhaseBand
	}{
		{
			name:   "empty",
			phases: nil,
		},
		{
			name: "does not start at level 1",
			phases: []PhaseBand{
				{LevelStart: 5, LevelEnd: MaxLevel, AvgExpPerVoyage: 1000, AvgVoyageHours: 10},
			},
		},
		{
			name: "gap between bands",
			phases: []PhaseBand{
				{LevelStart: 1, LevelEnd: 50, AvgExpPerVoyage: 1000, AvgVoyageHours: 10},
				{LevelStart: 60, LevelEnd: MaxLevel, AvgExpPerVoyage: 1000, AvgVoyageHours: 10},
			},
		},
		{
			name: "inverted band",
			phases: []PhaseBand{
				{LevelStart: 1, LevelEnd: 1, AvgExpPerVoyage: 1000, AvgVoyageHours: 10},
			},
		},
		{
			name: "nonpositive exp rate",
			phases: []PhaseBand{
				{LevelStart: 1, LevelEnd: MaxLevel, AvgExpPerVoyage: 0, AvgVoyageHours: 10},
			},
		},
		{
			name: "stops short of max level",
			phases: []PhaseBand{
				{LevelStart: 1, LevelEnd: 90, AvgExpPerVoyage: 1000, AvgVoyageHours: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidatePhases(tt.phases))
		})
	}
}

func TestRankTableExpToNext(t *testing.T) {
	ranks := RankTable{1: 500, 2: 700}

	assert.Equal(t, 500, ranks.ExpToNext(1))
	assert.Equal(t, 700, ranks.ExpToNext(2))
	// Missing levels contribute nothing rather than panicking.
	assert.Equal(t, 0, ranks.ExpToNext(99))
}

func TestPhaseBandContains(t *testing.T) {
	band := PhaseBand{LevelStart: 25, LevelEnd: 50}

	assert.True(t, band.Contains(25))
	assert.True(t, band.Contains(49))
	assert.False(t, band.Contains(50))
	assert.False(t, band.Contains(24))
}

func TestFallbackRanksCoverAllLevels(t *testing.T) {
	ranks := FallbackRanks()

	for level := 1; level < MaxLevel; level++ {
		assert.Greater(t, ranks.ExpToNext(level), 0, "level %d", level)
	}
}
