package handlers

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ovab-go/internal/models"
	sess "ovab-go/internal/session"
)

// Context and cookie keys shared with the router middleware.
const (
	sessionContextKey = "battery_session"
	sessionCookieKey  = "sid"
)

type BatteryHandler struct {
	log        *zap.Logger
	battery    *models.Battery
	manager    *sess.Manager
	frameEvery time.Duration
}

func NewBatteryHandler(log *zap.Logger, battery *models.Battery, manager *sess.Manager, frameEvery time.Duration) *BatteryHandler {
	return &BatteryHandler{log: log, battery: battery, manager: manager, frameEvery: frameEvery}
}

// Show renders the canvas page, creating a session when the visitor has
// none. The page connects back over the websocket route for frames.
func (h *BatteryHandler) Show(c *gin.Context) {
	s, ok := sessionFromContext(c)
	if !ok {
		var err error
		s, err = h.createSession(c)
		if err != nil {
			h.log.Error("Failed to create session", zap.Error(err))
			c.String(http.StatusInternalServerError, "Failed to create session")
			return
		}
	}

	cspNonce, _ := c.Get("csp_nonce")
	c.HTML(http.StatusOK, "battery.html", gin.H{
		"Title":     h.battery.Title,
		"SessionID": s.ID,
		"TestCount": len(h.battery.Tests),
		"CSPNonce":  cspNonce,
	})
}

// Restart rewinds the visitor's battery to its start screen and sends them
// back to the canvas page.
func (h *BatteryHandler) Restart(c *gin.Context) {
	s, ok := sessionFromContext(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if !s.Restart() {
		// The loop already shut down; the next page load starts fresh.
		h.manager.Remove(s.ID)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *BatteryHandler) createSession(c *gin.Context) (*sess.Session, error) {
	id := uuid.NewString()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	s := sess.New(id, h.log, h.battery, h.frameEvery, rng)
	s.Run(context.Background())
	h.manager.Put(s)

	cookie := sessions.Default(c)
	cookie.Set(sessionCookieKey, id)
	if err := cookie.Save(); err != nil {
		h.manager.Remove(id)
		return nil, err
	}

	h.log.Info("session created",
		zap.String("session", id),
		zap.String("client_ip", c.ClientIP()))
	return s, nil
}

func sessionFromContext(c *gin.Context) (*sess.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*sess.Session)
	return s, ok
}
