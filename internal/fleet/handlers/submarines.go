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

type SubmarinesHandler struct {
	aggregator *fleet.Aggregator
}

func NewSubmarinesHandler(aggregator *fleet.Aggregator) *SubmarinesHandler {
	return &SubmarinesHandler{aggregator: aggregator}
}

func (h *SubmarinesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "submarines")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	statusFilter := r.URL.Query().Get("status")
	switch statusFilter {
	case "", string(fleet.StatusReady), string(fleet.StatusReturningSoon), string(fleet.StatusVoyaging):
	default:
		response.Error(w, r, logger, errors.Validationf("unknown status %q", statusFilter))
		return
	}

	data := h.aggregator.BuildDashboard(time.Now().UTC())
	data = fleet.FilterForScopes(data, middleware.AllowedFCs(r.Context()))

	submarines := data.Submarines
	if statusFilter != "" {
		filtered := make([]fleet.SubmarineView, 0, len(submarines))
		for _, sub := range submarines {
			if sub.Status == fleet.Status(statusFilter) {
				filtered = append(filtered, sub)
			}
		}
		submarines = filtered
	}

	if submarines == nil {
		submarines = []fleet.SubmarineView{}
	}

	response.Success(w, http.StatusOK, submarines)
}
