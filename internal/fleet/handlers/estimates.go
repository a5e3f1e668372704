package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/estimator"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
	"github.com/AsunaPahlo/armada-web/internal/middleware"
	"github.com/AsunaPahlo/armada-web/internal/shared/config"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type EstimatesHandler struct {
	aggregator *fleet.Aggregator
}

func NewEstimatesHandler(aggregator *fleet.Aggregator) *EstimatesHandler {
	return &EstimatesHandler{aggregator: aggregator}
}

// estimatesResponse wraps per-FC estimates with the target they were
// computed for.
type estimatesResponse struct {
	TargetLevel int                       `json:"target_level"`
	FCs         []estimator.FleetEstimate `json:"fcs"`
}

func (h *EstimatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "estimates")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	targetLevel := config.GlobalConfig.Fleet.DefaultTargetLevel
	if raw := r.URL.Query().Get("target"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.Validationf("invalid target level %q", raw))
			return
		}
		if parsed < 1 {
			response.Error(w, r, logger, errors.Validationf("target level must be positive"))
			return
		}
		// Targets past the level cap just mean "level everything fully".
		if parsed > gamedata.MaxLevel {
			parsed = gamedata.MaxLevel
		}
		targetLevel = parsed
	}

	estimates := h.aggregator.BuildFleetEstimates(targetLevel, time.Now().UTC())

	if scopes := middleware.AllowedFCs(r.Context()); scopes != nil {
		filtered := make([]estimator.FleetEstimate, 0, len(estimates))
		for _, est := range estimates {
			if scopes[est.FCID] {
				filtered = append(filtered, est)
			}
		}
		estimates = filtered
	}

	if estimates == nil {
		estimates = []estimator.FleetEstimate{}
	}

	response.Success(w, http.StatusOK, estimatesResponse{
		TargetLevel: targetLevel,
		FCs:         estimates,
	})
}
