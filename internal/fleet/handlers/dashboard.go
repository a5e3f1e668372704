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

type DashboardHandler struct {
	aggregator *fleet.Aggregator
}

func NewDashboardHandler(aggregator *fleet.Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "dashboard")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	data := h.aggregator.BuildDashboard(time.Now().UTC())
	data = fleet.FilterForScopes(data, middleware.AllowedFCs(r.Context()))

	response.Success(w, http.StatusOK, data)
}
