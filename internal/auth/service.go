package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/AsunaPahlo/armada-web/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Login checks the password and issues a session token. Unknown users and
// bad passwords produce the same error so usernames cannot be probed.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	logger := s.logger.With("component", "auth_service", "operation", "login", "username", username)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", apperrors.WrapInternal("looking up user", err)
	}
	if user == nil {
		logger.Warn("Login attempt for unknown user")
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login attempt with wrong password")
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := GenerateJWT(user)
	if err != nil {
		return nil, "", apperrors.WrapInternal("generating session token", err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Failed to record login time", "error", err)
	}

	logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// CreateUser registers a dashboard account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, username, password, role string, allowedFCs []string) (*User, error) {
	if role != RoleAdmin && role != RoleViewer {
		return nil, apperrors.Validationf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapInternal("hashing password", err)
	}

	user, err := s.repo.CreateUser(ctx, username, string(hash), role, allowedFCs)
	if err != nil {
		return nil, apperrors.WrapInternal("creating user", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "username", username, "role", role)
	return user, nil
}

// ValidateAPIKey authorizes a telemetry producer. The label becomes its
// display name on the plugin status endpoint.
func (s *Service) ValidateAPIKey(ctx context.Context, key string) (*APIKey, error) {
	if key == "" {
		return nil, apperrors.Unauthorized("api key required")
	}

	apiKey, err := s.repo.ValidateAPIKey(ctx, key)
	if err != nil {
		return nil, apperrors.WrapInternal("validating api key", err)
	}
	if apiKey == nil {
		return nil, apperrors.Unauthorized("invalid api key")
	}

	return apiKey, nil
}

// CreateAPIKey mints a new producer credential. The secret is returned once
// and never listed again.
func (s *Service) CreateAPIKey(ctx context.Context, label string) (*APIKey, error) {
	if label == "" {
		return nil, apperrors.Validation("label is required")
	}

	key := fmt.Sprintf("afk-%s", uuid.NewString())
	apiKey, err := s.repo.CreateAPIKey(ctx, key, label)
	if err != nil {
		return nil, apperrors.WrapInternal("creating api key", err)
	}

	s.logger.Info("API key created", "key_id", apiKey.ID, "label", label)
	return apiKey, nil
}

func (s *Service) RevokeAPIKey(ctx context.Context, id int) error {
	err := s.repo.RevokeAPIKey(ctx, id)
	if err == sql.ErrNoRows {
		return apperrors.NotFoundf("api key %d not found", id)
	}
	if err != nil {
		return apperrors.WrapInternal("revoking api key", err)
	}

	s.logger.Info("API key revoked", "key_id", id)
	return nil
}

func (s *Service) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	keys, err := s.repo.ListAPIKeys(ctx)
	if err != nil {
		return nil, apperrors.WrapInternal("listing api keys", err)
	}
	return keys, nil
}
