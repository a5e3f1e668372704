package gamedata

// Sector describes one node of the submarine sector unlock tree. Prereq is the
// sector that must be discovered first; 0 marks a starting sector.
type Sector struct {
	ID         int
	Prereq     int
	UnlocksSub bool
	UnlocksMap int
	MapID      int
	Letter     string
	Name       string
}

// MapNames maps a map ID to its display name.
var MapNames = map[int]string{
	1: "The Deep-sea Site",
	2: "The Sea of Ash",
	3: "The Sea of Jade",
	4: "The Sirensong Sea",
	5: "The Lilac Sea",
	6: "South Indigo Deep",
	7: "The Northern Empty",
}

// SlotUnlock describes a submarine slot gated on a sector discovery. Path
// lists the sector letters that have to be discovered, in order, after the
// previous slot's chain is complete.
type SlotUnlock struct {
	Slot     int
	Sector   string
	SectorID int
	Path     []string
}

// SlotUnlocks lists the three slot-gating discoveries on the first map:
// slot 2 behind J, slot 3 behind O, slot 4 behind T. Each path assumes the
// previous slot's final sector is already discovered.
var SlotUnlocks = []SlotUnlock{
	{Slot: 2, Sector: "J", SectorID: 10, Path: []string{"E", "J"}},
	{Slot: 3, Sector: "O", SectorID: 15, Path: []string{"N", "O"}},
	{Slot: 4, Sector: "T", SectorID: 20, Path: []string{"S", "T"}},
}

// DeepSeaSiteSectors is the unlock tree for the first map. The slot and map
// gating all happens here; later maps are farming territory and not needed by
// the estimator.
var DeepSeaSiteSectors = []Sector{
	{ID: 1, Prereq: 0, MapID: 1, Letter: "A", Name: "The Ivory Shoals"},
	{ID: 2, Prereq: 0, MapID: 1, Letter: "B", Name: "Deep-sea Site 1"},
	{ID: 3, Prereq: 1, MapID: 1, Letter: "C", Name: "Deep-sea Site 2"},
	{ID: 4, Prereq: 2, MapID: 1, Letter: "D", Name: "The Lightless Basin"},
	{ID: 5, Prereq: 2, MapID: 1, Letter: "E", Name: "Deep-sea Site 3"},
	{ID: 6, Prereq: 3, MapID: 1, Letter: "F", Name: "The Southern Rimilala Trench"},
	{ID: 7, Prereq: 4, MapID: 1, Letter: "G", Name: "The Umbrella Narrow"},
	{ID: 8, Prereq: 7, MapID: 1, Letter: "H", Name: "Offender's Rot"},
	{ID: 9, Prereq: 5, MapID: 1, Letter: "I", Name: "Neolith Island"},
	{ID: 10, Prereq: 5, UnlocksSub: true, MapID: 1, Letter: "J", Name: "Unidentified Derelict"},
	{ID: 11, Prereq: 9, MapID: 1, Letter: "K", Name: "The Cobalt Shoals"},
	{ID: 12, Prereq: 8, MapID: 1, Letter: "L", Name: "The Mystic Basin"},
	{ID: 13, Prereq: 8, MapID: 1, Letter: "M", Name: "Deep-sea Site 4"},
	{ID: 14, Prereq: 10, MapID: 1, Letter: "N", Name: "The Central Rimilala Trench"},
	{ID: 15, Prereq: 14, UnlocksSub: true, MapID: 1, Letter: "O", Name: "The Wreckage Of Discovery I"},
	{ID: 16, Prereq: 11, MapID: 1, Letter: "P", Name: "Komura"},
	{ID: 17, Prereq: 16, MapID: 1, Letter: "Q", Name: "Kanayama"},
	{ID: 18, Prereq: 12, MapID: 1, Letter: "R", Name: "Concealed Bay"},
	{ID: 19, Prereq: 15, MapID: 1, Letter: "S", Name: "Deep-sea Site 5"},
	{ID: 20, Prereq: 19, UnlocksSub: true, MapID: 1, Letter: "T", Name: "Purgatory"},
	{ID: 21, Prereq: 19, MapID: 1, Letter: "U", Name: "Deep-sea Site 6"},
	{ID: 22, Prereq: 21, MapID: 1, Letter: "V", Name: "The Rimilala Shelf"},
	{ID: 23, Prereq: 14, MapID: 1, Letter: "W", Name: "Deep-sea Site 7"},
	{ID: 24, Prereq: 23, MapID: 1, Letter: "X", Name: "Glittersand Basin"},
	{ID: 25, Prereq: 20, MapID: 1, Letter: "Y", Name: "Flickering Dip"},
	{ID: 26, Prereq: 25, MapID: 1, Letter: "Z", Name: "The Wreckage Of The Headway"},
	{ID: 27, Prereq: 26, MapID: 1, Letter: "AA", Name: "The Upwell"},
	{ID: 28, Prereq: 27, MapID: 1, Letter: "AB", Name: "The Rimilala Trench Bottom"},
	{ID: 29, Prereq: 27, MapID: 1, Letter: "AC", Name: "Stone Temple"},
	{ID: 30, Prereq: 28, UnlocksMap: 2, MapID: 1, Letter: "AD", Name: "Sunken Vault"},
}

// mapStartSectors gives the first sector ID on each map, used to translate a
// sector ID into its letter label.
var mapStartSectors = map[int]int{
	1: 1,
	2: 32,
	3: 53,
	4: 74,
	5: 95,
	6: 116,
	7: 137,
}

// SectorLetter converts a sector ID to its letter label within its map
// (A..Z, then AA, AB, ...). Returns "?" for an unknown map.
func SectorLetter(sectorID, mapID int) string {
	start, ok := mapStartSectors[mapID]
	if !ok {
		return "?"
	}

	index := sectorID - start
	if index < 0 {
		return "?"
	}
	if index < 26 {
		return string(rune('A' + index))
	}
	first := rune('A' + index/26 - 1)
	second := rune('A' + index%26)
	return string(first) + string(second)
}

// LettersForSectors converts a set of map-1 sector IDs to their letters.
// Sectors on other maps are ignored; slot gating only happens on map 1.
func LettersForSectors(sectorIDs []int) map[string]bool {
	letters := make(map[string]bool, len(sectorIDs))
	for _, id := range sectorIDs {
		if id >= 1 && id <= 30 {
			letters[SectorLetter(id, 1)] = true
		}
	}
	return letters
}
