package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/middleware"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type FCsHandler struct {
	aggregator *fleet.Aggregator
}

func NewFCsHandler(aggregator *fleet.Aggregator) *FCsHandler {
	return &FCsHandler{aggregator: aggregator}
}

// List returns every visible Free Company summary.
func (h *FCsHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_fcs")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	data := h.aggregator.BuildDashboard(time.Now().UTC())
	data = fleet.FilterForScopes(data, middleware.AllowedFCs(r.Context()))

	fcs := data.FCs
	if fcs == nil {
		fcs = []fleet.FCSummary{}
	}

	response.Success(w, http.StatusOK, fcs)
}

// GetByID returns one Free Company summary.
func (h *FCsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_fc")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	fcID := r.PathValue("id")
	if fcID == "" {
		response.Error(w, r, logger, errors.Validation("FC ID is required"))
		return
	}

	data := h.aggregator.BuildDashboard(time.Now().UTC())
	data = fleet.FilterForScopes(data, middleware.AllowedFCs(r.Context()))

	for _, fc := range data.FCs {
		if fc.FCID == fcID {
			response.Success(w, http.StatusOK, fc)
			return
		}
	}

	response.Error(w, r, logger, errors.NotFoundf("FC %s not found", fcID))
}
