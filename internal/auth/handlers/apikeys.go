package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AsunaPahlo/armada-web/internal/auth"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

// APIKeysHandler manages telemetry producer credentials. Admin only.
type APIKeysHandler struct {
	service *auth.Service
}

func NewAPIKeysHandler(service *auth.Service) *APIKeysHandler {
	return &APIKeysHandler{service: service}
}

func (h *APIKeysHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_api_keys")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	keys, err := h.service.ListAPIKeys(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if keys == nil {
		keys = []auth.APIKey{}
	}
	response.Success(w, http.StatusOK, keys)
}

type createKeyRequest struct {
	Label string `json:"label"`
}

func (h *APIKeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_api_key")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.Validation("invalid request body"))
		return
	}

	key, err := h.service.CreateAPIKey(ctx, req.Label)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, key)
}

func (h *APIKeysHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "revoke_api_key")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.Validation("invalid key ID"))
		return
	}

	if err := h.service.RevokeAPIKey(ctx, id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "revoked"})
}
