// Package ws pushes store notifications to connected browsers over
// websockets. The hub implements qa.NotificationSink: the store hands it a
// plain event copy for every notification it creates, and the hub fans the
// event out to every connection the recipient currently has open.
package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/peerqa/peerqa/internal/qa"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 54 * time.Second
	pongWait       = 60 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-authenticated; the websocket carries no
	// state-changing operations, so cross-origin reads are harmless.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan qa.NotificationEvent
}

// Hub tracks connected clients per user name.
type Hub struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	clients map[string]map[uuid.UUID]*client
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]map[uuid.UUID]*client),
	}
}

// NotificationCreated delivers the event to every open connection of the
// recipient. A client whose send buffer is full is skipped, not waited on:
// the store must never block on a slow browser.
func (h *Hub) NotificationCreated(ev qa.NotificationEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, cl := range h.clients[strings.ToLower(ev.Recipient)] {
		select {
		case cl.send <- ev:
		default:
			h.logger.Warn("dropping notification for slow websocket client",
				zap.String("user", ev.Recipient),
				zap.String("client", cl.id.String()))
		}
	}
}

// Serve upgrades the request to a websocket and streams the caller's
// notification events until the connection closes. The caller's identity
// comes from the auth middleware, never from the request body.
func (h *Hub) Serve(c *gin.Context, username string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan qa.NotificationEvent, sendBufferSize),
	}
	h.register(username, cl)

	go h.writePump(cl)
	h.readPump(username, cl)
}

func (h *Hub) register(username string, cl *client) {
	key := strings.ToLower(username)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[uuid.UUID]*client)
	}
	h.clients[key][cl.id] = cl
}

func (h *Hub) unregister(username string, cl *client) {
	key := strings.ToLower(username)
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[key]; ok {
		delete(conns, cl.id)
		if len(conns) == 0 {
			delete(h.clients, key)
		}
	}
}

// readPump discards inbound messages; it exists to notice the close
// handshake and keep the pong deadline fresh.
func (h *Hub) readPump(username string, cl *client) {
	defer func() {
		h.unregister(username, cl)
		cl.conn.Close()
		close(cl.send)
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-cl.send:
			if !ok {
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
