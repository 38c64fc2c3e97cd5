package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/logger"
	"github.com/plushify/plushify-api/internal/metrics"
	"github.com/plushify/plushify-api/internal/session"
)

// SessionIdle signs out sessions idle for longer than the tracker window.
// Runs after AuthMiddleware.
func SessionIdle(tracker session.Tracker, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := SessionID(c)
		if sid == "" {
			httperr.Unauthorized(c, "session_expired", "Sua sessão expirou por inatividade. Entre novamente.")
			return
		}

		err := tracker.Touch(c.Request.Context(), sid)
		switch {
		case errors.Is(err, session.ErrExpired):
			m.SessionExpired()
			httperr.Unauthorized(c, "session_expired", "Sua sessão expirou por inatividade. Entre novamente.")
			return
		case err != nil:
			// tracker fora do ar: segue sem derrubar a sessão
			logger.FromGin(c).Warn("session tracker indisponível", zap.Error(err))
		}

		c.Next()
	}
}
