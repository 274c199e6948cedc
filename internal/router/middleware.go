package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sess "ovab-go/internal/session"
)

const (
	// SessionIDKey is the cookie-session key holding the battery session id.
	SessionIDKey = "sid"
	// SessionContextKey is where the loader stores the live session.
	SessionContextKey = "battery_session"
)

// SessionLoader checks for a session id in the cookie. If found, it loads
// the live session from the manager and adds it to the context. Cookies
// pointing at expired or swept sessions are cleared so we don't keep
// "zombie" ids around.
func SessionLoader(log *zap.Logger, manager *sess.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie := sessions.Default(c)
		id, ok := cookie.Get(SessionIDKey).(string)
		if !ok {
			// No session id in the cookie, proceed as a fresh visitor.
			c.Next()
			return
		}

		s, alive := manager.Get(id)
		if !alive {
			cookie.Delete(SessionIDKey)
			if err := cookie.Save(); err != nil {
				log.Warn("Failed to clear stale session cookie", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(SessionContextKey, s)
		c.Next()
	}
}

// SessionRequired rejects requests that did not resolve to a live session.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(SessionContextKey); !exists {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
