// Package telemetry terminates the websocket connections from in-game
// plugin producers: it authenticates them with API keys, decodes their
// fleet snapshots, and feeds the fleet store.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/voyage"
)

// Producer-sent message types.
const (
	TypeAuthenticate = "authenticate"
	TypeFleetData    = "fleet_data"
	TypeVoyageLoot   = "voyage_loot"
	TypePing         = "ping"
)

// Server-sent message types.
const (
	TypeAuthResponse = "auth_response"
	TypeDataResponse = "data_response"
	TypeLootResponse = "loot_response"
	TypePong         = "pong"
	TypeError        = "error"
)

// Envelope is the outer frame of every producer message. Payload decoding is
// deferred until the type is known.
type Envelope struct {
	Type     string          `json:"type"`
	PluginID string          `json:"plugin_id,omitempty"`
	APIKey   string          `json:"api_key,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// FleetDataPayload carries one full account snapshot set. Large payloads
// arrive gzip-compressed and base64-encoded in Data; small ones inline in
// Accounts.
type FleetDataPayload struct {
	Timestamp  time.Time       `json:"timestamp"`
	Compressed bool            `json:"compressed"`
	Data       string          `json:"data,omitempty"`
	Accounts   json.RawMessage `json:"accounts,omitempty"`
}

// VoyageLootPayload reports one completed voyage.
type VoyageLootPayload struct {
	FCID          string            `json:"fc_id"`
	SubmarineName string            `json:"submarine_name"`
	RouteName     string            `json:"route_name"`
	ReturnedAt    time.Time         `json:"returned_at"`
	GilValue      int               `json:"gil_value"`
	ExpGained     int               `json:"exp_gained"`
	Loot          []voyage.LootItem `json:"loot"`
}

// Response is the server's reply frame.
type Response struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
