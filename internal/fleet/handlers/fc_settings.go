package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

// FCSettingsHandler lets operators hide a Free Company or attach notes.
// Admin only; changes take effect on the next dashboard rebuild.
type FCSettingsHandler struct {
	repo       *fleet.Repository
	aggregator *fleet.Aggregator
}

func NewFCSettingsHandler(repo *fleet.Repository, aggregator *fleet.Aggregator) *FCSettingsHandler {
	return &FCSettingsHandler{repo: repo, aggregator: aggregator}
}

type fcSettingsRequest struct {
	Hidden bool   `json:"hidden"`
	Notes  string `json:"notes"`
}

func (h *FCSettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "fc_settings")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	fcID := r.PathValue("id")
	if fcID == "" {
		response.Error(w, r, logger, errors.Validation("FC ID is required"))
		return
	}

	var req fcSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.Validation("invalid request body"))
		return
	}

	settings := fleet.FCSettings{FCID: fcID, Hidden: req.Hidden, Notes: req.Notes}
	if err := h.repo.UpsertFCSettings(ctx, settings); err != nil {
		response.Error(w, r, logger, errors.WrapInternal("saving FC settings", err))
		return
	}

	// Reload the whole set so the aggregator and DB never drift.
	all, err := h.repo.LoadFCSettings(ctx)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("reloading FC settings", err))
		return
	}
	h.aggregator.SetFCSettings(all)

	logger.Info("FC settings updated", "fc_id", fcID, "hidden", req.Hidden)
	response.Success(w, http.StatusOK, settings)
}
