package notify

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stabilityparty/internal/event"
)

// Frame is the JSON envelope written to live listeners.
type Frame struct {
	Type    string               `json:"type"`
	EventID uuid.UUID            `json:"event_id"`
	Embeds  []event.Notification `json:"embeds"`
}

// client is one websocket subscriber, pinned to a single event.
type client struct {
	hub     *Hub
	conn    *websocket.Conn
	eventID uuid.UUID
	send    chan []byte
}

// Hub fans committed notifications out to websocket listeners. Each
// listener subscribes to one event; frames for other events are not
// delivered to it.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan Frame
	register   chan *client
	unregister chan *client
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Frame, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run is the hub's event loop. Call it once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case frame := <-h.broadcast:
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			for c := range h.clients {
				if c.eventID != frame.EventID {
					continue
				}
				select {
				case c.send <- payload:
				default:
					// Slow consumer: drop it rather than stall the hub.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Notify queues notifications for every listener of the event. Never
// blocks the caller.
func (h *Hub) Notify(eventID uuid.UUID, notes []event.Notification) {
	if len(notes) == 0 {
		return
	}
	select {
	case h.broadcast <- Frame{Type: "notifications", EventID: eventID, Embeds: notes}:
	default:
		if h.logger != nil {
			h.logger.Printf(`{"msg":"live broadcast dropped","event":%q}`, eventID)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and subscribes it to eventID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, eventID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf(`{"msg":"ws upgrade failed","err":%q}`, err.Error())
		}
		return
	}
	c := &client{hub: h, conn: conn, eventID: eventID, send: make(chan []byte, 64)}
	h.register <- c
	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so pings and closes are processed.
// Inbound payloads are ignored; the stream is one way.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
