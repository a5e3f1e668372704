package handlers

import (
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/shared/cookies"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	cookies.ClearAuthCookie(w)
	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
