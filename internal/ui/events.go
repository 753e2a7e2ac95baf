package ui

import (
	"encoding/json"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one loop event pushed to connected dashboards.
type Event struct {
	Kind string `json:"kind"` // "status", "display", "sleep", "mute", "exit"
	Text string `json:"text,omitempty"`
	User string `json:"user,omitempty"`
	Flag bool   `json:"flag,omitempty"`
}

// Events broadcasts loop events to every connected websocket client.
// Slow or dead clients are dropped, never waited on.
type Events struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewEvents() *Events {
	return &Events{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until it drops.
func (e *Events) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("ws upgrade failed", "err", err)
		return
	}

	e.mu.Lock()
	e.clients[conn] = true
	e.mu.Unlock()

	// reads are discarded; the feed is one-way
	go func() {
		defer e.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends the event to all clients.
func (e *Events) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	e.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(e.clients))
	for c := range e.clients {
		conns = append(conns, c)
	}
	e.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			e.drop(c)
		}
	}
}

func (e *Events) drop(conn *websocket.Conn) {
	e.mu.Lock()
	if e.clients[conn] {
		delete(e.clients, conn)
		conn.Close()
	}
	e.mu.Unlock()
}
