package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pricetable/internal/core/apperror"
	appctx "pricetable/internal/core/context"
	"pricetable/internal/infrastructure/session"
	"pricetable/pkg/logger"
)

const (
	// SessionHeader is the HTTP header for session identification.
	SessionHeader = "X-Session-ID"

	workspaceKey = "workspace"
)

// Session middleware resolves the session from header and injects its
// workspace into the gin context.
func Session(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw := c.GetHeader(SessionHeader)
		if raw == "" {
			_ = c.Error(
				apperror.NewValidation("session is required").
					WithDetail("header", SessionHeader),
			)
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			_ = c.Error(
				apperror.NewValidation("invalid session id").
					WithDetail("header", SessionHeader).
					WithDetail("value", raw),
			)
			c.Abort()
			return
		}
		sessionID := id.String()

		w, err := manager.Get(sessionID)
		if err != nil {
			logger.Warn(ctx, "session lookup failed", "session_id", sessionID, "error", err)
			if errors.Is(err, session.ErrSessionNotFound) {
				_ = c.Error(apperror.NewNotFound("session", sessionID))
			} else {
				_ = c.Error(apperror.NewInternal(err).WithDetail("session_id", sessionID))
			}
			c.Abort()
			return
		}

		// Keep the session from being evicted mid-request
		w.AcquireRef()
		defer w.ReleaseRef()

		c.Request = c.Request.WithContext(appctx.WithSessionID(ctx, sessionID))
		c.Set(workspaceKey, w)

		c.Next()
	}
}

// GetWorkspace retrieves the session workspace from gin context.
// Returns nil if not found.
func GetWorkspace(c *gin.Context) *session.Workspace {
	if v, exists := c.Get(workspaceKey); exists {
		if w, ok := v.(*session.Workspace); ok {
			return w
		}
	}
	return nil
}
