// Package hub fans dashboard updates out to connected browser viewers over
// websockets. Delivery is at-most-once: a viewer whose send buffer is full
// misses that update and catches up on the next broadcast tick.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AsunaPahlo/armada-web/internal/fleet"
)

// Viewer-facing message types.
const (
	MessageTypeConnected          = "connected"
	MessageTypeDashboardUpdate    = "dashboard_update"
	MessageTypeFCUpdate           = "fc_update"
	MessageTypePluginConnected    = "plugin_connected"
	MessageTypePluginDisconnected = "plugin_disconnected"
	MessageTypeLootRecorded       = "loot_recorded"
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
	MessageTypeError              = "error"

	// Viewer-sent control messages.
	MessageTypeJoinFC        = "join_fc"
	MessageTypeLeaveFC       = "leave_fc"
	MessageTypeRequestUpdate = "request_update"
)

// Message is one websocket frame in either direction.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// outbound pairs a message with its audience. A non-empty fcID restricts
// delivery to viewers subscribed to that FC's room.
type outbound struct {
	msg  Message
	fcID string
}

// DashboardProvider supplies the latest built dashboard for on-demand
// refreshes.
type DashboardProvider interface {
	Dashboard() *fleet.DashboardData
}

// Hub maintains the set of active viewers and routes broadcasts to them.
// Dashboard payloads are filtered per viewer by FC scope before delivery.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	clients   map[*Client]bool
	broadcast chan outbound
	mu        sync.RWMutex
	logger    *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 256),
		logger:     slog.With("component", "viewer_hub"),
	}
}

// Run processes registrations and broadcasts until the context is canceled,
// then closes every viewer connection.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			h.logger.Info("Viewer hub stopped")
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Viewer connected", "username", client.username, "total_clients", total)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Viewer disconnected", "username", client.username, "total_clients", total)

		case out := <-h.broadcast:
			h.deliver(out)
		}
	}
}

// BroadcastDashboard queues a full dashboard update for every viewer. Each
// viewer receives a copy filtered to the FCs they may see.
func (h *Hub) BroadcastDashboard(data *fleet.DashboardData) {
	h.enqueue(outbound{msg: Message{Type: MessageTypeDashboardUpdate, Data: data}})
}

// BroadcastFCUpdate queues one FC's summary for viewers subscribed to its
// room.
func (h *Hub) BroadcastFCUpdate(fcID string, summary fleet.FCSummary) {
	h.enqueue(outbound{
		msg:  Message{Type: MessageTypeFCUpdate, Data: summary},
		fcID: fcID,
	})
}

// Broadcast queues an event for every viewer.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	h.enqueue(outbound{msg: Message{Type: msgType, Data: data}})
}

func (h *Hub) enqueue(out outbound) {
	select {
	case h.broadcast <- out:
	default:
		h.logger.Warn("Broadcast queue full, dropping message", "type", out.msg.Type)
	}
}

func (h *Hub) deliver(out outbound) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if out.fcID != "" {
			if !client.inRoom(out.fcID) || !client.canSeeFC(out.fcID) {
				continue
			}
		}

		msg := out.msg
		if data, ok := msg.Data.(*fleet.DashboardData); ok {
			msg.Data = fleet.FilterForScopes(data, client.scopes)
		}

		// Slow viewers miss updates rather than stalling the hub.
		select {
		case client.send <- msg:
		default:
			h.logger.Warn("Viewer send buffer full, dropping message",
				"username", client.username,
				"type", msg.Type,
			)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
