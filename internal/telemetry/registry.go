package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/shared/redis"
)

const presenceTTL = 5 * time.Minute

// Registry tracks which producers hold a live connection. Presence is
// mirrored into Redis with a TTL so other processes can see it.
type Registry struct {
	mu        sync.RWMutex
	connected map[string]time.Time
	cache     *redis.Client
}

func NewRegistry(cache *redis.Client) *Registry {
	return &Registry{
		connected: make(map[string]time.Time),
		cache:     cache,
	}
}

func (r *Registry) Connect(ctx context.Context, pluginID string) {
	r.mu.Lock()
	r.connected[pluginID] = time.Now().UTC()
	r.mu.Unlock()

	r.touch(ctx, pluginID)
}

func (r *Registry) Disconnect(pluginID string) {
	r.mu.Lock()
	delete(r.connected, pluginID)
	r.mu.Unlock()
}

// Touch refreshes the producer's last-seen marker on data arrival.
func (r *Registry) Touch(ctx context.Context, pluginID string) {
	r.mu.Lock()
	if _, ok := r.connected[pluginID]; ok {
		r.connected[pluginID] = time.Now().UTC()
	}
	r.mu.Unlock()

	r.touch(ctx, pluginID)
}

func (r *Registry) touch(ctx context.Context, pluginID string) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, "plugin:last_seen:"+pluginID, time.Now().UTC().Format(time.RFC3339), presenceTTL)
}

// ConnectedPlugins returns the set of currently connected producer IDs.
func (r *Registry) ConnectedPlugins() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool, len(r.connected))
	for id := range r.connected {
		out[id] = true
	}
	return out
}
