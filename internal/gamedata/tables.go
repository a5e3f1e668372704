package gamedata

import (
	"fmt"
	"log/slog"
)

// MaxLevel is the highest submarine rank the game data covers.
const MaxLevel = 125

// PhaseBand describes one contiguous band of the leveling curve. Bands are
// immutable after validation; the estimator walks them in order.
type PhaseBand struct {
	LevelStart         int
	LevelEnd           int
	AvgExpPerVoyage    float64
	AvgVoyageHours     float64
	DiscoveryRNGFactor float64
}

// Contains reports whether level falls inside the band, start inclusive.
func (b PhaseBand) Contains(level int) bool {
	return level >= b.LevelStart && level < b.LevelEnd
}

// RankTable maps a level to the experience required to advance past it.
type RankTable map[int]int

// ExpToNext returns the experience required to advance from level. Unknown
// levels contribute zero; callers are expected to have logged the gap once at
// load time, but reads still warn so data-quality problems surface.
func (t RankTable) ExpToNext(level int) int {
	exp, ok := t[level]
	if !ok {
		slog.Warn("No rank experience data for level, treating as zero",
			"component", "gamedata", "level", level)
		return 0
	}
	return exp
}

// Tables bundles the static game data the estimator depends on.
type Tables struct {
	Ranks  RankTable
	Phases []PhaseBand
}

// ValidatePhases enforces the phase band invariants: every band ascending,
// LevelStart < LevelEnd, contiguous with no gaps or overlaps, covering
// [1, MaxLevel].
func ValidatePhases(phases []PhaseBand) error {
	if len(phases) == 0 {
		return fmt.Errorf("no phase bands defined")
	}

	if phases[0].LevelStart != 1 {
		return fmt.Errorf("first phase band must start at level 1, got %d", phases[0].LevelStart)
	}

	for i, band := range phases {
		if band.LevelStart >= band.LevelEnd {
			return fmt.Errorf("phase band %d: level start %d must be below level end %d",
				i, band.LevelStart, band.LevelEnd)
		}
		if band.AvgExpPerVoyage <= 0 {
			return fmt.Errorf("phase band %d: average exp per voyage must be positive", i)
		}
		if band.AvgVoyageHours <= 0 {
			return fmt.Errorf("phase band %d: average voyage hours must be positive", i)
		}
		if band.DiscoveryRNGFactor < 0 {
			return fmt.Errorf("phase band %d: discovery RNG factor must not be negative", i)
		}
		if i > 0 && band.LevelStart != phases[i-1].LevelEnd {
			return fmt.Errorf("phase band %d: starts at %d but previous band ends at %d",
				i, band.LevelStart, phases[i-1].LevelEnd)
		}
	}

	last := phases[len(phases)-1]
	if last.LevelEnd != MaxLevel {
		return fmt.Errorf("last phase band must end at level %d, got %d", MaxLevel, last.LevelEnd)
	}

	return nil
}

// FallbackPhases approximates the leveling curve when no sector data has been
// loaded into the database yet. Conservative community estimates.
func FallbackPhases() []PhaseBand {
	return []PhaseBand{
		{LevelStart: 1, LevelEnd: 25, AvgExpPerVoyage: 200_000, AvgVoyageHours: 20, DiscoveryRNGFactor: 0.40},
		{LevelStart: 25, LevelEnd: 50, AvgExpPerVoyage: 800_000, AvgVoyageHours: 50, DiscoveryRNGFactor: 0.20},
		{LevelStart: 50, LevelEnd: 75, AvgExpPerVoyage: 1_500_000, AvgVoyageHours: 60, DiscoveryRNGFactor: 0.02},
		{LevelStart: 75, LevelEnd: 90, AvgExpPerVoyage: 2_500_000, AvgVoyageHours: 80, DiscoveryRNGFactor: 0.01},
		{LevelStart: 90, LevelEnd: 125, AvgExpPerVoyage: 4_000_000, AvgVoyageHours: 90, DiscoveryRNGFactor: 0.00},
	}
}

// FallbackRanks approximates the per-level experience requirements when the
// rank table has not been imported. Real data is preferred.
func FallbackRanks() RankTable {
	ranks := make(RankTable, MaxLevel)
	for level := 1; level <= MaxLevel; level++ {
		switch {
		case level <= 15:
			ranks[level] = 60_000 + level*8_000
		case level <= 30:
			ranks[level] = 120_000 + level*10_000
		case level <= 50:
			ranks[level] = 200_000 + level*12_000
		case level <= 75:
			ranks[level] = 350_000 + level*15_000
		default:
			ranks[level] = 500_000 + level*18_000
		}
	}
	return ranks
}
