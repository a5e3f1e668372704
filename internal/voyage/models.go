// Package voyage records completed voyage results reported by telemetry
// producers, keeping a queryable income history.
package voyage

import "time"

// LootItem is one item stack retrieved on a voyage.
type LootItem struct {
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Value    int    `json:"value"`
}

// Voyage is one completed submarine voyage.
type Voyage struct {
	ID            int64      `json:"id"`
	PluginID      string     `json:"plugin_id"`
	FCID          string     `json:"fc_id"`
	SubmarineName string     `json:"submarine_name"`
	RouteName     string     `json:"route_name"`
	ReturnedAt    time.Time  `json:"returned_at"`
	GilValue      int        `json:"gil_value"`
	ExpGained     int        `json:"exp_gained"`
	Loot          []LootItem `json:"loot"`
	RecordedAt    time.Time  `json:"recorded_at"`
}

// RouteIncome aggregates recent earnings for one route.
type RouteIncome struct {
	RouteName string  `json:"route_name"`
	Voyages   int     `json:"voyages"`
	TotalGil  int64   `json:"total_gil"`
	AvgGil    float64 `json:"avg_gil"`
	AvgExp    float64 `json:"avg_exp"`
}
