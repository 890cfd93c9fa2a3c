package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pricetable/internal/core/apperror"
	"pricetable/internal/infrastructure/http/v1/dto"
	"pricetable/internal/infrastructure/session"
)

// SessionHandler opens and closes browser sessions.
type SessionHandler struct {
	*BaseHandler
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *BaseHandler, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{BaseHandler: base, sessions: sessions}
}

// Create opens a session and mounts its table.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	w, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		if errors.Is(err, session.ErrSessionLimit) {
			h.Error(c, apperror.NewUnavailable("too many open sessions").WithCause(err))
			return
		}
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.Created(c, dto.SessionResponse{SessionID: w.ID})
}

// Delete closes the caller's session.
// DELETE /api/v1/sessions
func (h *SessionHandler) Delete(c *gin.Context) {
	w, ok := h.Workspace(c)
	if !ok {
		return
	}
	if err := h.sessions.Delete(w.ID); err != nil {
		h.Error(c, apperror.NewNotFound("session", w.ID))
		return
	}
	h.Success(c, "session closed")
}
