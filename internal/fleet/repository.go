package fleet

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
	logger.Debug("Initializing fleet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// SaveSnapshot upserts the latest snapshot for a producer. Only the newest
// snapshot per producer is kept; voyage history lives in its own tables.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *PluginSnapshot) error {
	logger := r.logger.With(
		"component", "fleet_repository",
		"operation", "save_snapshot",
		"plugin_id", snap.PluginID,
	)

	payload, err := json.Marshal(snap.Accounts)
	if err != nil {
		return fmt.Errorf("encoding snapshot accounts: %w", err)
	}

	query := `
		INSERT INTO plugin_snapshots (plugin_id, accounts, reported_at, received_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plugin_id) DO UPDATE SET
			accounts = EXCLUDED.accounts,
			reported_at = EXCLUDED.reported_at,
			received_at = EXCLUDED.received_at
	`

	if _, err := r.db.ExecContext(ctx, query, snap.PluginID, payload, snap.Timestamp, snap.ReceivedAt); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	logger.Debug("Persisted snapshot", "bytes", len(payload))
	return nil
}

// LoadSnapshots reads every persisted snapshot. Rows that no longer decode
// are skipped with a warning rather than failing startup.
func (r *Repository) LoadSnapshots(ctx context.Context) ([]*PluginSnapshot, error) {
	logger := r.logger.With(
		"component", "fleet_repository",
		"operation", "load_snapshots",
	)

	query := `
		SELECT plugin_id, accounts, reported_at, received_at
		FROM plugin_snapshots
		ORDER BY plugin_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []*PluginSnapshot
	for rows.Next() {
		var (
			snap    PluginSnapshot
			payload []byte
		)
		if err := rows.Scan(&snap.PluginID, &payload, &snap.Timestamp, &snap.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if err := json.Unmarshal(payload, &snap.Accounts); err != nil {
			logger.Warn("Skipping undecodable snapshot", "plugin_id", snap.PluginID, "error", err)
			continue
		}
		out = append(out, &snap)
	}

	return out, rows.Err()
}

// DeleteSnapshot removes a producer's persisted snapshot.
func (r *Repository) DeleteSnapshot(ctx context.Context, pluginID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plugin_snapshots WHERE plugin_id = $1`, pluginID)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// LoadFCSettings reads operator overrides keyed by Free Company ID.
func (r *Repository) LoadFCSettings(ctx context.Context) (map[string]FCSettings, error) {
	query := `SELECT fc_id, hidden, COALESCE(notes, '') FROM fc_settings`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying fc settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]FCSettings)
	for rows.Next() {
		var s FCSettings
		if err := rows.Scan(&s.FCID, &s.Hidden, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning fc settings row: %w", err)
		}
		out[s.FCID] = s
	}

	return out, rows.Err()
}

// UpsertFCSettings stores overrides for one Free Company.
func (r *Repository) UpsertFCSettings(ctx context.Context, settings FCSettings) error {
	query := `
		INSERT INTO fc_settings (fc_id, hidden, notes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fc_id) DO UPDATE SET
			hidden = EXCLUDED.hidden,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, settings.FCID, settings.Hidden, settings.Notes, time.Now().UTC()); err != nil {
		return fmt.Errorf("upserting fc settings: %w", err)
	}
	return nil
}
