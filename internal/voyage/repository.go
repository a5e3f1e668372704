package voyage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) InsertVoyage(ctx context.Context, v *Voyage) error {
	loot, err := json.Marshal(v.Loot)
	if err != nil {
		return fmt.Errorf("encoding loot: %w", err)
	}

	query := `
		INSERT INTO voyages (plugin_id, fc_id, submarine_name, route_name, returned_at, gil_value, exp_gained, loot, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		v.PluginID,
		v.FCID,
		v.SubmarineName,
		v.RouteName,
		v.ReturnedAt,
		v.GilValue,
		v.ExpGained,
		loot,
		v.RecordedAt,
	).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("inserting voyage: %w", err)
	}

	return nil
}

// RecentVoyages returns the newest voyages for one FC, or across all FCs
// when fcID is empty.
func (r *Repository) RecentVoyages(ctx context.Context, fcID string, limit int) ([]Voyage, error) {
	query := `
		SELECT id, plugin_id, fc_id, submarine_name, route_name, returned_at, gil_value, exp_gained, loot, recorded_at
		FROM voyages
		WHERE ($1 = '' OR fc_id = $1)
		ORDER BY returned_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, fcID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying voyages: %w", err)
	}
	defer rows.Close()

	var voyages []Voyage
	for rows.Next() {
		var (
			v    Voyage
			loot []byte
		)
		if err := rows.Scan(&v.ID, &v.PluginID, &v.FCID, &v.SubmarineName, &v.RouteName, &v.ReturnedAt, &v.GilValue, &v.ExpGained, &loot, &v.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning voyage row: %w", err)
		}
		if len(loot) > 0 {
			if err := json.Unmarshal(loot, &v.Loot); err != nil {
				r.logger.Warn("Skipping undecodable loot payload", "voyage_id", v.ID, "error", err)
			}
		}
		voyages = append(voyages, v)
	}

	return voyages, rows.Err()
}

// RouteIncomes aggregates voyage earnings per route over a trailing window.
func (r *Repository) RouteIncomes(ctx context.Context, since time.Time) ([]RouteIncome, error) {
	query := `
		SELECT route_name, COUNT(*), COALESCE(SUM(gil_value), 0), COALESCE(AVG(gil_value), 0), COALESCE(AVG(exp_gained), 0)
		FROM voyages
		WHERE returned_at >= $1 AND route_name <> ''
		GROUP BY route_name
		ORDER BY SUM(gil_value) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("querying route incomes: %w", err)
	}
	defer rows.Close()

	var incomes []RouteIncome
	for rows.Next() {
		var income RouteIncome
		if err := rows.Scan(&income.RouteName, &income.Voyages, &income.TotalGil, &income.AvgGil, &income.AvgExp); err != nil {
			return nil, fmt.Errorf("scanning route income row: %w", err)
		}
		incomes = append(incomes, income)
	}

	return incomes, rows.Err()
}
