package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/shared/database"
	"github.com/AsunaPahlo/armada-web/internal/shared/redis"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Viewers   int    `json:"viewers"`
	Plugins   int    `json:"plugins"`
}

// ConnectionCounter exposes live connection totals for the health endpoint.
type ConnectionCounter interface {
	ClientCount() int
}

// PluginCounter reports connected telemetry producers.
type PluginCounter interface {
	ConnectedPlugins() map[string]bool
}

type HealthHandler struct {
	db      *database.DB
	cache   *redis.Client
	viewers ConnectionCounter
	plugins PluginCounter
}

func NewHealthHandler(db *database.DB, cache *redis.Client, viewers ConnectionCounter, plugins PluginCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, viewers: viewers, plugins: plugins}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disconnected"
	if err := h.db.Ping(); err == nil {
		dbStatus = "connected"
	} else {
		logger.Warn("Database ping failed", "error", err)
	}

	redisStatus := "disabled"
	if h.cache != nil {
		redisStatus = "disconnected"
		if err := h.cache.Ping(r.Context()).Err(); err == nil {
			redisStatus = "connected"
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
	}
	if h.viewers != nil {
		resp.Viewers = h.viewers.ClientCount()
	}
	if h.plugins != nil {
		resp.Plugins = len(h.plugins.ConnectedPlugins())
	}

	response.Success(w, http.StatusOK, resp)
}
