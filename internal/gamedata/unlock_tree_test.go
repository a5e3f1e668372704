package gamedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorLetter(t *testing.T) {
	assert.Equal(t, "A", SectorLetter(1, 1))
	assert.Equal(t, "J", SectorLetter(10, 1))
	assert.Equal(t, "Z", SectorLetter(26, 1))
	assert.Equal(t, "AA", SectorLetter(27, 1))
	assert.Equal(t, "AD", SectorLetter(30, 1))
	assert.Equal(t, "A", SectorLetter(32, 2))
	assert.Equal(t, "?", SectorLetter(5, 99))
}

func TestLettersForSectors(t *testing.T) {
	letters := LettersForSectors([]int{1, 10, 20, 30, 40, 200})

	assert.True(t, letters["A"])
	assert.True(t, letters["J"])
	assert.True(t, letters["T"])
	assert.True(t, letters["AD"])
	// Off-map sectors are dropped.
	assert.Len(t, letters, 4)
}

func TestSlotUnlocksMatchSectorTree(t *testing.T) {
	byID := make(map[int]Sector, len(DeepSeaSiteSectors))
	for _, sector := range DeepSeaSiteSectors {
		byID[sector.ID] = sector
	}

	for _, slot := range SlotUnlocks {
		gate, ok := byID[slot.SectorID]
		require.True(t, ok, "slot %d gate sector %d missing from tree", slot.Slot, slot.SectorID)
		assert.True(t, gate.UnlocksSub, "slot %d gate sector %s must unlock a slot", slot.Slot, slot.Sector)
		assert.Equal(t, slot.Sector, gate.Letter)
		// The chain ends at the gate itself.
		assert.Equal(t, slot.Sector, slot.Path[len(slot.Path)-1])
	}
}

func TestDeepSeaSitePrereqsResolve(t *testing.T) {
	byID := make(map[int]Sector, len(DeepSeaSiteSectors))
	for _, sector := range DeepSeaSiteSectors {
		byID[sector.ID] = sector
	}

	for _, sector := range DeepSeaSiteSectors {
		if sector.Prereq == 0 {
			continue
		}
		prereq, ok := byID[sector.Prereq]
		require.True(t, ok, "sector %s prereq %d missing", sector.Letter, sector.Prereq)
		assert.Less(t, prereq.ID, sector.ID, "prereqs must come earlier in the tree")
	}
}
