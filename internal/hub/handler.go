package hub

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/AsunaPahlo/armada-web/internal/auth"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/shared/config"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

// Handler upgrades authenticated viewers onto the hub. Browsers cannot set
// headers on websocket dials, so the session token is read from the auth
// cookie or a token query parameter.
type Handler struct {
	hub      *Hub
	provider DashboardProvider
	upgrader websocket.Upgrader
}

func NewHandler(h *Hub, provider DashboardProvider) *Handler {
	return &Handler{
		hub:      h,
		provider: provider,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	frontend := config.GlobalConfig.Frontend.URL
	return frontend == "" || strings.HasPrefix(origin, frontend)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "viewer_ws", "remote_addr", r.RemoteAddr)

	claims, err := h.authenticate(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, claims.Username, claims.ScopeSet(), h.provider)
	h.hub.Register <- client
	client.Start()

	client.Send(Message{Type: MessageTypeConnected, Data: map[string]string{"username": claims.Username}})
	if h.provider != nil {
		if data := h.provider.Dashboard(); data != nil {
			client.Send(Message{
				Type: MessageTypeDashboardUpdate,
				Data: fleet.FilterForScopes(data, client.scopes),
			})
		}
	}
}

func (h *Handler) authenticate(r *http.Request) (*auth.Claims, error) {
	token := ""
	if cookie, err := r.Cookie("auth_token"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, errors.Unauthorized("authentication required")
	}

	claims, err := auth.ValidateJWT(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid token")
	}
	return claims, nil
}
