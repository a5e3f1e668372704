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

type SupplyHandler struct {
	aggregator *fleet.Aggregator
}

func NewSupplyHandler(aggregator *fleet.Aggregator) *SupplyHandler {
	return &SupplyHandler{aggregator: aggregator}
}

func (h *SupplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "supply")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	data := h.aggregator.BuildDashboard(time.Now().UTC())
	data = fleet.FilterForScopes(data, middleware.AllowedFCs(r.Context()))

	response.Success(w, http.StatusOK, data.Supply)
}
