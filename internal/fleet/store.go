package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Store holds the latest snapshot per telemetry producer. Writers replace a
// producer's snapshot wholesale; readers get a point-in-time copy of the
// pointer set, so a long-running aggregation never sees a half-applied
// update.
type Store struct {
	mu         sync.RWMutex
	snapshots  map[string]*PluginSnapshot
	lastUpdate time.Time

	repo   *Repository
	logger *slog.Logger
}

func NewStore(repo *Repository) *Store {
	return &Store{
		snapshots: make(map[string]*PluginSnapshot),
		repo:      repo,
		logger:    slog.With("component", "fleet_store"),
	}
}

// LoadPersisted restores the most recent persisted snapshot for every
// producer, so a restart does not blank the dashboard until plugins
// reconnect.
func (s *Store) LoadPersisted(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	snapshots, err := s.repo.LoadSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted snapshots: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		s.snapshots[snap.PluginID] = snap
		if snap.ReceivedAt.After(s.lastUpdate) {
			s.lastUpdate = snap.ReceivedAt
		}
	}

	s.logger.Info("Restored persisted snapshots", "count", len(snapshots))
	return nil
}

// SetSnapshot stores a producer's new snapshot, carrying forward previously
// reported unlocked sectors for any character whose new report omits them.
// Producers send sector data only for the logged-in character, so a blank
// list means "unchanged", not "none".
func (s *Store) SetSnapshot(ctx context.Context, snap *PluginSnapshot) error {
	if snap.PluginID == "" {
		return fmt.Errorf("snapshot missing plugin id")
	}
	if snap.ReceivedAt.IsZero() {
		snap.ReceivedAt = time.Now().UTC()
	}

	s.mu.Lock()
	prior := s.snapshots[snap.PluginID]
	mergeUnlockedSectors(snap, prior)
	s.snapshots[snap.PluginID] = snap
	s.lastUpdate = snap.ReceivedAt
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Error("Failed to persist snapshot",
				"plugin_id", snap.PluginID,
				"error", err,
			)
		}
	}

	return nil
}

// mergeUnlockedSectors fills empty unlocked-sector lists in the incoming
// snapshot from the prior one, matching characters by CID.
func mergeUnlockedSectors(snap, prior *PluginSnapshot) {
	if prior == nil {
		return
	}

	known := make(map[int64][]int)
	for _, acct := range prior.Accounts {
		for _, ch := range acct.Characters {
			if len(ch.UnlockedSectors) > 0 {
				known[ch.CID] = ch.UnlockedSectors
			}
		}
	}

	for ai := range snap.Accounts {
		chars := snap.Accounts[ai].Characters
		for ci := range chars {
			if len(chars[ci].UnlockedSectors) == 0 {
				if sectors, ok := known[chars[ci].CID]; ok {
					chars[ci].UnlockedSectors = sectors
				}
			}
		}
	}
}

// Snapshots returns the current snapshot set. The returned snapshots are
// shared and must be treated as read-only.
func (s *Store) Snapshots() []*PluginSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*PluginSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PluginID < out[j].PluginID })
	return out
}

// Snapshot returns the snapshot for one producer, if present.
func (s *Store) Snapshot(pluginID string) (*PluginSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[pluginID]
	return snap, ok
}

// RemoveSnapshot drops a producer's in-memory snapshot. Persisted history is
// kept.
func (s *Store) RemoveSnapshot(pluginID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, pluginID)
}

// LastUpdate is the receive time of the newest stored snapshot.
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// PluginStatuses reports every known producer, flagging which are currently
// connected.
func (s *Store) PluginStatuses(connected map[string]bool) []PluginStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PluginStatus, 0, len(s.snapshots))
	for id, snap := range s.snapshots {
		reported := snap.Timestamp
		received := snap.ReceivedAt
		out = append(out, PluginStatus{
			PluginID:     id,
			Connected:    connected[id],
			LastReported: &reported,
			LastReceived: &received,
			AccountCount: len(snap.Accounts),
		})
	}
	for id := range connected {
		if _, ok := s.snapshots[id]; !ok && connected[id] {
			out = append(out, PluginStatus{PluginID: id, Connected: true})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PluginID < out[j].PluginID })
	return out
}
