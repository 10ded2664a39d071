package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlanticave/storefront/internal/infrastructure/logger"
)

// DefaultSessionCookie is the cookie that carries the session ID
const DefaultSessionCookie = "storefront_session"

// SessionConfig configures the session cookie
type SessionConfig struct {
	CookieName string
	// Secure sets the Secure attribute; enable behind HTTPS.
	Secure bool
}

// Session ensures every request has a session ID. A missing or malformed
// cookie is replaced by a fresh UUID, which is written back as a session cookie.
func Session(cfg SessionConfig) gin.HandlerFunc {
	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookie
	}

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(name)
		if err != nil || !isValidSessionID(sessionID) {
			sessionID = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     name,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(logger.GinSessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// GetSessionID returns the session ID set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(logger.GinSessionIDKey)
}

func isValidSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
