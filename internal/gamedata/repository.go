package gamedata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AsunaPahlo/armada-web/internal/shared/database"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// LoadTables reads the rank experience table and phase bands from the
// database, falling back to the static approximations when either table is
// empty. The result is validated before use and never mutated afterwards.
func (r *Repository) LoadTables(ctx context.Context) (*Tables, error) {
	logger := slog.With("component", "gamedata_repository", "operation", "load_tables")

	ranks, err := r.loadRanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rank table: %w", err)
	}
	if len(ranks) == 0 {
		logger.Warn("No rank experience rows in database, using fallback table")
		ranks = FallbackRanks()
	}

	phases, err := r.loadPhases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load phase bands: %w", err)
	}
	if len(phases) == 0 {
		logger.Warn("No phase band rows in database, using fallback bands")
		phases = FallbackPhases()
	}

	if err := ValidatePhases(phases); err != nil {
		return nil, fmt.Errorf("invalid phase band data: %w", err)
	}

	logger.Info("Game data tables loaded",
		"rank_levels", len(ranks),
		"phase_bands", len(phases),
	)

	return &Tables{Ranks: ranks, Phases: phases}, nil
}

// LoadRouteNames returns the names of the established farming routes. Subs
// sailing anything else are treated as leveling.
func (r *Repository) LoadRouteNames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT route_name FROM route_stats`)
	if err != nil {
		return nil, fmt.Errorf("failed to query route stats: %w", err)
	}
	defer rows.Close()

	routes := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan route name: %w", err)
		}
		routes[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route rows: %w", err)
	}

	return routes, nil
}

func (r *Repository) loadRanks(ctx context.Context) (RankTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT level, exp_to_next
		FROM submarine_ranks
		ORDER BY level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query submarine ranks: %w", err)
	}
	defer rows.Close()

	ranks := make(RankTable)
	for rows.Next() {
		var level, expToNext int
		if err := rows.Scan(&level, &expToNext); err != nil {
			return nil, fmt.Errorf("failed to scan rank row: %w", err)
		}
		ranks[level] = expToNext
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rank rows: %w", err)
	}

	return ranks, nil
}

func (r *Repository) loadPhases(ctx context.Context) ([]PhaseBand, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT level_start, level_end, avg_exp_per_voyage, avg_voyage_hours, discovery_rng_factor
		FROM phase_bands
		ORDER BY level_start
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phase bands: %w", err)
	}
	defer rows.Close()

	var phases []PhaseBand
	for rows.Next() {
		var band PhaseBand
		err := rows.Scan(
			&band.LevelStart,
			&band.LevelEnd,
			&band.AvgExpPerVoyage,
			&band.AvgVoyageHours,
			&band.DiscoveryRNGFactor,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase band row: %w", err)
		}
		phases = append(phases, band)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phase band rows: %w", err)
	}

	return phases, nil
}
