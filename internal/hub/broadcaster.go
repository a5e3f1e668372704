package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/shared/redis"
)

const dashboardCacheKey = "dashboard:latest"

// Broadcaster periodically rebuilds the dashboard and pushes it to every
// viewer. Telemetry arrival kicks an immediate rebuild instead of waiting
// for the next tick.
type Broadcaster struct {
	hub        *Hub
	aggregator *fleet.Aggregator
	cache      *redis.Client
	interval   time.Duration
	logger     *slog.Logger

	mu     sync.RWMutex
	latest *fleet.DashboardData

	kick chan struct{}
}

func NewBroadcaster(h *Hub, aggregator *fleet.Aggregator, cache *redis.Client, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		hub:        h,
		aggregator: aggregator,
		cache:      cache,
		interval:   interval,
		logger:     slog.With("component", "broadcaster"),
		kick:       make(chan struct{}, 1),
	}
}

// Run rebuilds and broadcasts on every tick or kick until the context is
// canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info("Broadcast loop started", "interval", b.interval)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Broadcast loop stopped")
			return ctx.Err()
		case <-ticker.C:
			b.rebuild(ctx)
		case <-b.kick:
			b.rebuild(ctx)
		}
	}
}

// Kick requests an immediate rebuild. Safe to call from any goroutine;
// coalesces with a pending kick.
func (b *Broadcaster) Kick() {
	select {
	case b.kick <- struct{}{}:
	default:
	}
}

// Dashboard returns the most recently built dashboard, building one on
// demand if nothing has been broadcast yet.
func (b *Broadcaster) Dashboard() *fleet.DashboardData {
	b.mu.RLock()
	latest := b.latest
	b.mu.RUnlock()

	if latest != nil {
		return latest
	}
	return b.aggregator.BuildDashboard(time.Now().UTC())
}

func (b *Broadcaster) rebuild(ctx context.Context) {
	data := b.aggregator.BuildDashboard(time.Now().UTC())

	b.mu.Lock()
	b.latest = data
	b.mu.Unlock()

	b.hub.BroadcastDashboard(data)
	for _, fc := range data.FCs {
		b.hub.BroadcastFCUpdate(fc.FCID, fc)
	}

	b.cacheDashboard(ctx, data)
}

// cacheDashboard keeps the latest unfiltered payload in Redis so other
// processes (or a restarted server) can serve it without a full rebuild.
func (b *Broadcaster) cacheDashboard(ctx context.Context, data *fleet.DashboardData) {
	if b.cache == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		b.logger.Warn("Failed to encode dashboard for cache", "error", err)
		return
	}

	if err := b.cache.Set(ctx, dashboardCacheKey, payload, 2*b.interval).Err(); err != nil {
		b.logger.Warn("Failed to cache dashboard", "error", err)
	}
}
