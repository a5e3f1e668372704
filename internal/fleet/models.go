package fleet

import (
	"time"
)

// Status is a submarine's voyage state, recomputed from the wall clock at
// read time rather than trusted from telemetry.
type Status string

const (
	StatusReady         Status = "ready"
	StatusReturningSoon Status = "returning_soon"
	StatusVoyaging      Status = "voyaging"
)

// Submarine is one voyaging unit as reported by a telemetry producer.
type Submarine struct {
	Name           string    `json:"name"`
	Level          int       `json:"level"`
	CurrentExp     int       `json:"current_exp"`
	NextLevelExp   int       `json:"next_level_exp"`
	ExpProgress    float64   `json:"exp_progress"`
	Build          string    `json:"build"`
	Parts          []string  `json:"parts"`
	RoutePlanGUID  string    `json:"route_plan_guid"`
	RouteName      string    `json:"route_name"`
	RoutePoints    []int     `json:"route_points"`
	UnlockPlanGUID string    `json:"unlock_plan_guid"`
	ReturnTime     time.Time `json:"return_time"`
	Enabled        bool      `json:"enabled"`
	GilPerDay      float64   `json:"gil_per_day"`
	TanksPerDay    float64   `json:"tanks_per_day"`
	KitsPerDay     float64   `json:"kits_per_day"`
}

// StatusAt derives the voyage status and remaining hours from the return
// time: returned submarines are ready, those within half an hour are
// returning soon.
func (s Submarine) StatusAt(now time.Time) (Status, float64) {
	hoursRemaining := s.ReturnTime.Sub(now).Hours()

	switch {
	case hoursRemaining <= 0:
		return StatusReady, hoursRemaining
	case hoursRemaining <= 0.5:
		return StatusReturningSoon, hoursRemaining
	default:
		return StatusVoyaging, hoursRemaining
	}
}

// OnUnlockPlan reports whether the submarine follows a sector unlock plan
// rather than a fixed farming route.
func (s Submarine) OnUnlockPlan() bool {
	return s.UnlockPlanGUID != ""
}

// Character is one in-game character with its submarines and supplies.
type Character struct {
	CID             int64       `json:"cid"`
	Name            string      `json:"name"`
	World           string      `json:"world"`
	FCID            int64       `json:"fc_id"`
	Gil             int64       `json:"gil"`
	Ceruleum        int         `json:"ceruleum"`
	RepairKits      int         `json:"repair_kits"`
	SubSlots        int         `json:"num_sub_slots"`
	DiveCredits     int         `json:"dive_credits"`
	UnlockedSectors []int       `json:"unlocked_sectors"`
	Submarines      []Submarine `json:"submarines"`
}

// FCInfo is per-Free-Company state shared by its characters.
type FCInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Gil      int64  `json:"gil"`
	FCPoints int    `json:"fc_points"`
}

// UnlockPlan is a player-defined ordered sector priority list for revealing
// undiscovered sectors.
type UnlockPlan struct {
	GUID            string `json:"guid"`
	Name            string `json:"name"`
	FCID            int64  `json:"fc_id"`
	Sectors         []int  `json:"sectors"`
	ExcludedSectors []int  `json:"excluded_sectors"`
	Enforced        bool   `json:"enforced"`
}

// AccountSnapshot is one account's complete reported state.
type AccountSnapshot struct {
	Nickname    string            `json:"nickname"`
	Characters  []Character       `json:"characters"`
	FCs         map[int64]FCInfo  `json:"fc_data"`
	UnlockPlans map[string]string `json:"unlock_plans"`
}

// PluginSnapshot is the authoritative state reported by one telemetry
// producer. Snapshots are immutable once stored: an update replaces the
// whole object, never mutates it in place.
type PluginSnapshot struct {
	PluginID   string            `json:"plugin_id"`
	Accounts   []AccountSnapshot `json:"accounts"`
	Timestamp  time.Time         `json:"timestamp"`
	ReceivedAt time.Time         `json:"received_at"`
}

// PluginStatus summarizes one known producer for the status endpoint.
type PluginStatus struct {
	PluginID     string     `json:"plugin_id"`
	Connected    bool       `json:"connected"`
	LastReported *time.Time `json:"last_data_timestamp"`
	LastReceived *time.Time `json:"last_received_at"`
	AccountCount int        `json:"account_count"`
}

// FCSettings carries operator overrides for one Free Company. Hidden FCs are
// excluded from every view and aggregate.
type FCSettings struct {
	FCID   string `json:"fc_id"`
	Hidden bool   `json:"hidden"`
	Notes  string `json:"notes"`
}
