package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWithSectors(pluginID string, sectors []int) *PluginSnapshot {
	return &PluginSnapshot{
		PluginID: pluginID,
		Accounts: []AccountSnapshot{
			{
				Nickname: "main",
				Characters: []Character{
					{CID: 1001, Name: "Asuna Pahlo", FCID: 42, UnlockedSectors: sectors},
				},
			},
		},
		Timestamp:  time.Now().UTC(),
		ReceivedAt: time.Now().UTC(),
	}
}

func TestStoreSetSnapshotReplaces(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", []int{1, 2})))
	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", []int{1, 2, 3})))

	snapshots := store.Snapshots()
	require.Len(t, snapshots, 1)
	assert.Equal(t, []int{1, 2, 3}, snapshots[0].Accounts[0].Characters[0].UnlockedSectors)
}

func TestStoreRejectsMissingPluginID(t *testing.T) {
	store := NewStore(nil)

	err := store.SetSnapshot(context.Background(), snapshotWithSectors("", nil))
	assert.Error(t, err)
	assert.Empty(t, store.Snapshots())
}

func TestStoreCarriesForwardUnlockedSectors(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", []int{1, 2, 5})))

	// A later report without sector data keeps the known sectors.
	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", nil)))

	snap, ok := store.Snapshot("plugin-1")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 5}, snap.Accounts[0].Characters[0].UnlockedSectors)
}

func TestStoreSnapshotsAreIndependentPerPlugin(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", []int{1})))
	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-2", []int{2})))

	assert.Len(t, store.Snapshots(), 2)

	store.RemoveSnapshot("plugin-1")
	snapshots := store.Snapshots()
	require.Len(t, snapshots, 1)
	assert.Equal(t, "plugin-2", snapshots[0].PluginID)
}

func TestStorePluginStatuses(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, snapshotWithSectors("plugin-1", nil)))

	statuses := store.PluginStatuses(map[string]bool{"plugin-1": true, "plugin-2": true})
	require.Len(t, statuses, 2)

	assert.Equal(t, "plugin-1", statuses[0].PluginID)
	assert.True(t, statuses[0].Connected)
	assert.Equal(t, 1, statuses[0].AccountCount)
	require.NotNil(t, statuses[0].LastReceived)

	// Connected producer that has not sent data yet.
	assert.Equal(t, "plugin-2", statuses[1].PluginID)
	assert.True(t, statuses[1].Connected)
	assert.Nil(t, statuses[1].LastReceived)
}

func TestStoreLastUpdateTracksNewest(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	assert.True(t, store.LastUpdate().IsZero())

	snap := snapshotWithSectors("plugin-1", nil)
	snap.ReceivedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetSnapshot(ctx, snap))

	assert.Equal(t, snap.ReceivedAt, store.LastUpdate())
}
