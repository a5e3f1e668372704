package handlers

import (
	"log/slog"
	"net/http"

	"github.com/AsunaPahlo/armada-web/internal/middleware"
	"github.com/AsunaPahlo/armada-web/internal/shared/errors"
	"github.com/AsunaPahlo/armada-web/internal/shared/response"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"user_id":     claims.UserID,
		"username":    claims.Username,
		"role":        claims.Role,
		"allowed_fcs": claims.AllowedFCs,
	})
}
