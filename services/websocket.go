package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client represents a connected WebSocket client watching one board
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  int64
	BoardID int64
}

// BoardEvent notifies clients that something on a board changed. Payload is
// the affected entity (card, list, ...) already in its response shape.
type BoardEvent struct {
	Type    string `json:"type"`
	BoardID int64  `json:"board_id"`
	Payload any    `json:"payload,omitempty"`
}

// ReadPump pumps messages from the WebSocket connection to the hub.
// Clients only listen for board events; inbound frames are drained to keep
// the connection's pong handling alive.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type boardMessage struct {
	boardID int64
	data    []byte
}

// Hub maintains the set of active clients and delivers board events to the
// clients watching the affected board
type Hub struct {
	Clients    map[*Client]bool
	broadcast  chan boardMessage
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan boardMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a board event to every client watching that board
func (h *Hub) Broadcast(event BoardEvent) {
	jsonMessage, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling board event: %v", err)
		return
	}

	h.broadcast <- boardMessage{boardID: event.BoardID, data: jsonMessage}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.Clients[client] = true
			log.Printf("Client connected: user %d, board %d", client.UserID, client.BoardID)
		case client := <-h.unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				log.Printf("Client disconnected: user %d", client.UserID)
			}
		case message := <-h.broadcast:
			for client := range h.Clients {
				if client.BoardID != message.boardID {
					continue
				}

				select {
				case client.Send <- message.data:
					// Message sent successfully
				default:
					// Client's send buffer is full, assume disconnected
					log.Printf("Client send buffer full, removing client: user %d", client.UserID)
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}
