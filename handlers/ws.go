package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/services"
)

// WSHandler upgrades connections for real-time board updates
type WSHandler struct {
	store *database.Store
	hub   *services.Hub
}

func NewWSHandler(store *database.Store, hub *services.Hub) *WSHandler {
	return &WSHandler{store: store, hub: hub}
}

// HandleWebSocket upgrades the HTTP connection and subscribes the client to
// one board's event stream
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	boardID, err := strconv.ParseInt(r.URL.Query().Get("board_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}

	// Only the board's owner may watch it
	if _, err := h.store.BoardByIDAndUser(boardID, userID); err != nil {
		writeStoreError(w, err)
		return
	}

	// Upgrade HTTP connection to WebSocket
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &services.Client{
		Hub:     h.hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		BoardID: boardID,
	}

	h.hub.Register(client)
	log.Printf("WebSocket client registered: user %d, board %d", userID, boardID)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
}
