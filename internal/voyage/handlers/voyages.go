package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AsunaPahlo/armada-web/internal/middleware"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
	"github.com/AsunaPahlo/armada-web/internal/voyage"
)

type VoyagesHandler struct {
	service *voyage.Service
}

func NewVoyagesHandler(service *voyage.Service) *VoyagesHandler {
	return &VoyagesHandler{service: service}
}

// List returns recent voyages, optionally filtered to one FC.
func (h *VoyagesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_voyages")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	fcID := r.URL.Query().Get("fc")
	if scopes := middleware.AllowedFCs(ctx); scopes != nil {
		if fcID == "" || !scopes[fcID] {
			response.Error(w, r, logger, errors.Forbidden("fc not available"))
			return
		}
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.Validationf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	voyages, err := h.service.Recent(ctx, fcID, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if voyages == nil {
		voyages = []voyage.Voyage{}
	}
	response.Success(w, http.StatusOK, voyages)
}

// RouteIncomes returns per-route earnings over a trailing window.
func (h *VoyagesHandler) RouteIncomes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "route_incomes")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.Validationf("invalid days %q", raw))
			return
		}
		days = parsed
	}

	incomes, err := h.service.RouteIncomes(ctx, days)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if incomes == nil {
		incomes = []voyage.RouteIncome{}
	}
	response.Success(w, http.StatusOK, incomes)
}
