package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ovab-go/internal/geometry"
	sess "ovab-go/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is everything the canvas sends: a hello carrying its
// viewport, or a tap carrying pointer coordinates.
type clientMessage struct {
	Type string  `json:"type"`
	W    float64 `json:"w,omitempty"`
	H    float64 `json:"h,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// WSHandler bridges websocket connections to battery sessions: frames flow
// out at the session's tick rate, hello and tap messages flow in. It keeps
// the active client per session so a stale connection tearing down cannot
// detach its replacement.
type WSHandler struct {
	log *zap.Logger

	mu     sync.Mutex
	active map[string]*wsClient
}

func NewWSHandler(log *zap.Logger) *WSHandler {
	return &WSHandler{
		log:    log,
		active: make(map[string]*wsClient),
	}
}

func (h *WSHandler) Serve(c *gin.Context) {
	s, ok := sessionFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection to WebSocket", zap.Error(err))
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.active[s.ID] = client
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client, s)
}

// readPump owns teardown: when the read side ends, the write pump is told
// to finish and the session is detached, unless a newer connection has
// already taken over.
func (h *WSHandler) readPump(client *wsClient, s *sess.Session) {
	defer func() {
		h.mu.Lock()
		current := h.active[s.ID] == client
		if current {
			delete(h.active, s.ID)
		}
		h.mu.Unlock()

		if current {
			s.Detach()
		}
		close(client.done)
		client.conn.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Error("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn("Discarding malformed client message", zap.Error(err))
			continue
		}
		h.dispatch(client, s, msg)
	}
}

func (h *WSHandler) dispatch(client *wsClient, s *sess.Session, msg clientMessage) {
	switch msg.Type {
	case "hello":
		s.Attach(geometry.Size{W: msg.W, H: msg.H}, func(f sess.Frame) {
			data, err := json.Marshal(f)
			if err != nil {
				h.log.Error("Failed to marshal frame", zap.Error(err))
				return
			}
			select {
			case client.send <- data:
			default:
				// Slow consumer: drop the frame, the next tick replaces it.
			}
		})
	case "tap":
		s.Tap(geometry.Point{X: msg.X, Y: msg.Y})
	default:
		h.log.Warn("Unknown client message type", zap.String("type", msg.Type))
	}
}

func (h *WSHandler) writePump(client *wsClient) {
	for {
		select {
		case message := <-client.send:
			w, err := client.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-client.done:
			client.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
