package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/services"
)

// ListHandler handles list CRUD endpoints
type ListHandler struct {
	store *database.Store
	hub   *services.Hub
}

func NewListHandler(store *database.Store, hub *services.Hub) *ListHandler {
	return &ListHandler{store: store, hub: hub}
}

func (h *ListHandler) ByBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	boardID, err := pathID(r, "boardID")
	if err != nil {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}

	lists, err := h.store.ListsByBoard(boardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.ListCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	list, err := h.store.CreateList(userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.hub.Broadcast(services.BoardEvent{Type: "list_created", BoardID: list.BoardID, Payload: list})
	writeJSON(w, http.StatusCreated, list)
}

// Update applies a partial update. The payload only admits known fields;
// anything else is rejected rather than silently dropped.
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	listID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid list id", http.StatusBadRequest)
		return
	}

	var upd database.ListUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&upd); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	list, err := h.store.UpdateList(listID, userID, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.hub.Broadcast(services.BoardEvent{Type: "list_updated", BoardID: list.BoardID, Payload: list})
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	listID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid list id", http.StatusBadRequest)
		return
	}

	list, err := h.store.ListByIDAndUser(listID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.store.DeleteList(listID, userID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.hub.Broadcast(services.BoardEvent{Type: "list_deleted", BoardID: list.BoardID, Payload: list})
	w.WriteHeader(http.StatusNoContent)
}
