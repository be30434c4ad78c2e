// Package progress implements an optional single-client websocket
// broadcaster for live scan progress, adapted from the teacher's
// internal/websocket hub: a scan run is generally watched by one operator
// dashboard at a time, so a single active connection is all that's
// supported.
package progress

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub manages at most one active websocket connection and fans every
// Broadcast call out to it.
type Hub struct {
	log zerolog.Logger

	mu     sync.RWMutex
	client *client

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewHub builds a Hub. Call Run in a goroutine before ServeWS receives
// any connections.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log,
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Frame is the envelope every broadcast message is wrapped in: either a
// "progress" frame carrying an orchestrator.ProgressEvent or a "finding"
// frame carrying a models.Finding, left as interface{} so this package
// doesn't need to import either.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Run drives the Hub's connection lifecycle; it blocks and should be run
// in its own goroutine for the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.client != nil {
				close(h.client.send)
			}
			h.client = c
			h.mu.Unlock()
			h.log.Info().Msg("progress client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if h.client == c {
				close(h.client.send)
				h.client = nil
				h.log.Info().Msg("progress client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if h.client != nil {
				select {
				case h.client.send <- msg:
				default:
					h.log.Warn().Msg("progress client send buffer full, dropping connection")
					close(h.client.send)
					h.client = nil
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast marshals frameType/data as a Frame and sends it to the
// active client, if any. Silently drops the message when no client is
// connected — progress broadcasting is best-effort.
func (h *Hub) Broadcast(frameType string, data interface{}) {
	payload, err := json.Marshal(Frame{Type: frameType, Data: data})
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to marshal progress frame")
		return
	}

	h.mu.RLock()
	hasClient := h.client != nil
	h.mu.RUnlock()
	if !hasClient {
		return
	}
	h.broadcast <- payload
}

// ServeWS upgrades the request to a websocket connection and registers it
// as the Hub's active client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("progress websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
