package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/AsunaPahlo/armada-web/internal/shared/database"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, password_hash, role, allowed_fcs, created_at, last_login_at
		FROM users
		WHERE username = $1
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.AllowedFCs,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &user, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash, role string, allowedFCs []string) (*User, error) {
	query := `
		INSERT INTO users (username, password_hash, role, allowed_fcs)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, allowed_fcs, created_at, last_login_at
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, username, passwordHash, role, pq.StringArray(allowedFCs)).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.AllowedFCs,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

// ValidateAPIKey looks up an active key and stamps its last use. Returns nil
// when the key is unknown or revoked.
func (r *Repository) ValidateAPIKey(ctx context.Context, key string) (*APIKey, error) {
	query := `
		UPDATE api_keys
		SET last_used_at = $1
		WHERE key = $2 AND NOT revoked
		RETURNING id, label, revoked, created_at, last_used_at
	`

	var apiKey APIKey
	err := r.db.QueryRowContext(ctx, query, time.Now().UTC(), key).Scan(
		&apiKey.ID,
		&apiKey.Label,
		&apiKey.Revoked,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validating api key: %w", err)
	}

	return &apiKey, nil
}

func (r *Repository) CreateAPIKey(ctx context.Context, key, label string) (*APIKey, error) {
	query := `
		INSERT INTO api_keys (key, label)
		VALUES ($1, $2)
		RETURNING id, label, revoked, created_at, last_used_at
	`

	var apiKey APIKey
	err := r.db.QueryRowContext(ctx, query, key, label).Scan(
		&apiKey.ID,
		&apiKey.Label,
		&apiKey.Revoked,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating api key: %w", err)
	}

	apiKey.Key = key
	return &apiKey, nil
}

func (r *Repository) RevokeAPIKey(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE api_keys SET revoked = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoking api key: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking revoke result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListAPIKeys returns key metadata without the secret values.
func (r *Repository) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	query := `
		SELECT id, label, revoked, created_at, last_used_at
		FROM api_keys
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing api keys: %w", err)
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Label, &k.Revoked, &k.CreatedAt, &k.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}
