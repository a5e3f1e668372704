package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/auth"
	"github.com/AsunaPahlo/armada-web/internal/shared/cookies"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type LoginHandler struct {
	service *auth.Service
}

func NewLoginHandler(service *auth.Service) *LoginHandler {
	return &LoginHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username   string   `json:"username"`
	Role       string   `json:"role"`
	AllowedFCs []string `json:"allowed_fcs,omitempty"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "login", "remote_addr", r.RemoteAddr)

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.Validation("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Error(w, r, logger, errors.Validation("username and password are required"))
		return
	}

	user, token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cookies.SetAuthCookie(w, token)
	response.Success(w, http.StatusOK, loginResponse{
		Username:   user.Username,
		Role:       user.Role,
		AllowedFCs: user.AllowedFCs,
	})
}
