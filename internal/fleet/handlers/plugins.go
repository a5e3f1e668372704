package handlers

import (
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

// ConnectionLister reports which telemetry producers hold a live connection.
type ConnectionLister interface {
	ConnectedPlugins() map[string]bool
}

type PluginsHandler struct {
	store       *fleet.Store
	connections ConnectionLister
}

func NewPluginsHandler(store *fleet.Store, connections ConnectionLister) *PluginsHandler {
	return &PluginsHandler{store: store, connections: connections}
}

func (h *PluginsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "plugin_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var connected map[string]bool
	if h.connections != nil {
		connected = h.connections.ConnectedPlugins()
	}

	statuses := h.store.PluginStatuses(connected)
	response.Success(w, http.StatusOK, statuses)
}
