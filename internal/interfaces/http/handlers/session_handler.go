package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "buffzone.backend/internal/domain/errors"
	"buffzone.backend/internal/interfaces/http/response"
	"buffzone.backend/internal/usecases"
)

// SessionHandler exposes the payment session admission checks
type SessionHandler struct {
	sessionGuard *usecases.SessionGuardUsecase
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionGuard *usecases.SessionGuardUsecase) *SessionHandler {
	return &SessionHandler{sessionGuard: sessionGuard}
}

// CheckSession answers either "does this session UUID already exist" or
// "may this account open another pending session", depending on which
// query parameter is present
// GET /api/v1/payment-sessions/check?uuid= | ?accountNumber=
func (h *SessionHandler) CheckSession(c *gin.Context) {
	if raw := c.Query("uuid"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			response.Error(c, apperrors.BadRequest("uuid is not valid"))
			return
		}
		result, err := h.sessionGuard.CheckSessionExists(c.Request.Context(), raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, result)
		return
	}

	account := c.Query("accountNumber")
	if account == "" {
		response.Error(c, apperrors.BadRequest("uuid or accountNumber is required"))
		return
	}

	result, err := h.sessionGuard.CheckCanCreateSession(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
