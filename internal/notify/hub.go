// Package notify broadcasts tool-update events to companion displays
// over WebSocket. Delivery is best effort: a display that is slow,
// gone, or never connected costs the call nothing.
package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// ToolUpdate is the event shape displays consume.
type ToolUpdate struct {
	Type      string         `json:"type"`
	Tool      string         `json:"tool"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *zap.Logger

	upgrader websocket.Upgrader
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
		upgrader: websocket.Upgrader{
			// displays connect from arbitrary origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades an HTTP request and registers the display until it
// disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("ui display connected", zap.Int("clients", n))

	// drain the connection; displays never send anything we need
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends a TOOL_UPDATE to every connected display. Failed
// writes drop the client; errors are logged and swallowed.
func (h *Hub) Publish(tool string, data map[string]any) {
	msg, err := json.Marshal(ToolUpdate{
		Type:      "TOOL_UPDATE",
		Tool:      tool,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Error("tool update marshal failed", zap.Error(err))
		return
	}

	// the lock also serializes writes; gorilla connections do not
	// allow concurrent WriteMessage calls
	var dead []*websocket.Conn
	h.mu.Lock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("dropping ui display", zap.Error(err))
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		delete(h.clients, c)
		c.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) drop(c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
	h.mu.Unlock()
}

// Close disconnects every display, used during shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}
