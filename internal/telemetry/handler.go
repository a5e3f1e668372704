package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AsunaPahlo/armada-web/internal/auth"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/hub"
	"github.com/AsunaPahlo/armada-web/internal/shared/config"
	"github.com/AsunaPahlo/armada-web/internal/voyage"
)

const (
	authTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Second
	readTimeout  = 10 * time.Minute
)

// Refresher is kicked when new telemetry lands, so viewers do not wait for
// the next broadcast tick.
type Refresher interface {
	Kick()
}

// Handler terminates producer websocket sessions on /ws/plugin.
type Handler struct {
	store    *fleet.Store
	auth     *auth.Service
	voyages  *voyage.Service
	registry *Registry
	viewers  *hub.Hub
	refresh  Refresher
	upgrader websocket.Upgrader
}

func NewHandler(store *fleet.Store, authService *auth.Service, voyages *voyage.Service, registry *Registry, viewers *hub.Hub, refresh Refresher) *Handler {
	return &Handler{
		store:    store,
		auth:     authService,
		voyages:  voyages,
		registry: registry,
		viewers:  viewers,
		refresh:  refresh,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// Producers are game clients, not browsers; there is no origin
			// to check. The API key is the trust boundary.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "plugin_ws", "remote_addr", r.RemoteAddr)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(config.GlobalConfig.Fleet.MaxSnapshotBytes)

	session, err := h.authenticate(r.Context(), conn)
	if err != nil {
		logger.Warn("Producer authentication failed", "error", err)
		h.reply(conn, Response{Type: TypeAuthResponse, Success: false, Message: err.Error()})
		return
	}

	logger = logger.With("plugin_id", session.pluginID, "label", session.label)
	logger.Info("Producer connected")

	h.registry.Connect(r.Context(), session.pluginID)
	h.viewers.Broadcast(hub.MessageTypePluginConnected, map[string]string{"plugin_id": session.pluginID})

	defer func() {
		h.registry.Disconnect(session.pluginID)
		h.viewers.Broadcast(hub.MessageTypePluginDisconnected, map[string]string{"plugin_id": session.pluginID})
		logger.Info("Producer disconnected")
	}()

	h.reply(conn, Response{Type: TypeAuthResponse, Success: true})
	h.run(r.Context(), conn, session, logger)
}

type session struct {
	pluginID string
	label    string
}

// authenticate expects the first frame to be an authenticate message with a
// valid API key.
func (h *Handler) authenticate(ctx context.Context, conn *websocket.Conn) (*session, error) {
	if err := conn.SetReadDeadline(time.Now().Add(authTimeout)); err != nil {
		return nil, err
	}

	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	if env.Type != TypeAuthenticate {
		return nil, errNotAuthenticated
	}
	if env.PluginID == "" {
		return nil, errMissingPluginID
	}

	key, err := h.auth.ValidateAPIKey(ctx, env.APIKey)
	if err != nil {
		return nil, err
	}

	return &session{pluginID: env.PluginID, label: key.Label}, nil
}

func (h *Handler) run(ctx context.Context, conn *websocket.Conn, session *session, logger *slog.Logger) {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}

		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Unexpected producer close", "error", err)
			}
			return
		}

		switch env.Type {
		case TypeFleetData:
			h.handleFleetData(ctx, conn, session, env.Payload, logger)
		case TypeVoyageLoot:
			h.handleVoyageLoot(ctx, conn, session, env.Payload, logger)
		case TypePing:
			h.reply(conn, Response{Type: TypePong, Success: true})
		default:
			h.reply(conn, Response{Type: TypeError, Success: false, Message: "unknown message type"})
		}
	}
}

// handleFleetData replaces the producer's snapshot. A payload that fails to
// decode or validate is acked with an error and the prior snapshot stays in
// place.
func (h *Handler) handleFleetData(ctx context.Context, conn *websocket.Conn, session *session, payload json.RawMessage, logger *slog.Logger) {
	var data FleetDataPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		h.reply(conn, Response{Type: TypeDataResponse, Success: false, Message: "invalid payload"})
		return
	}

	raw, err := DecodePayload(&data, config.GlobalConfig.Fleet.MaxSnapshotBytes)
	if err != nil {
		logger.Warn("Rejecting snapshot payload", "error", err)
		h.reply(conn, Response{Type: TypeDataResponse, Success: false, Message: err.Error()})
		return
	}

	accounts, err := ParseAccounts(raw)
	if err != nil {
		logger.Warn("Rejecting malformed snapshot", "error", err)
		h.reply(conn, Response{Type: TypeDataResponse, Success: false, Message: err.Error()})
		return
	}

	snap := &fleet.PluginSnapshot{
		PluginID:   session.pluginID,
		Accounts:   accounts,
		Timestamp:  data.Timestamp,
		ReceivedAt: time.Now().UTC(),
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = snap.ReceivedAt
	}

	if err := h.store.SetSnapshot(ctx, snap); err != nil {
		h.reply(conn, Response{Type: TypeDataResponse, Success: false, Message: err.Error()})
		return
	}

	h.registry.Touch(ctx, session.pluginID)
	if h.refresh != nil {
		h.refresh.Kick()
	}

	logger.Debug("Snapshot accepted", "accounts", len(accounts))
	h.reply(conn, Response{Type: TypeDataResponse, Success: true})
}

func (h *Handler) handleVoyageLoot(ctx context.Context, conn *websocket.Conn, session *session, payload json.RawMessage, logger *slog.Logger) {
	var data VoyageLootPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		h.reply(conn, Response{Type: TypeLootResponse, Success: false, Message: "invalid payload"})
		return
	}

	v := &voyage.Voyage{
		PluginID:      session.pluginID,
		FCID:          data.FCID,
		SubmarineName: data.SubmarineName,
		RouteName:     data.RouteName,
		ReturnedAt:    data.ReturnedAt,
		GilValue:      data.GilValue,
		ExpGained:     data.ExpGained,
		Loot:          data.Loot,
	}

	if err := h.voyages.Record(ctx, v); err != nil {
		logger.Warn("Rejecting voyage loot", "error", err)
		h.reply(conn, Response{Type: TypeLootResponse, Success: false, Message: err.Error()})
		return
	}

	h.viewers.Broadcast(hub.MessageTypeLootRecorded, v)
	h.reply(conn, Response{Type: TypeLootResponse, Success: true})
}

func (h *Handler) reply(conn *websocket.Conn, resp Response) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return
	}
	_ = conn.WriteJSON(resp)
}
