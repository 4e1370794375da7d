package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/services"
)

// CardHandler handles card endpoints, including the move protocol and the
// card-scoped label and subtask resources
type CardHandler struct {
	store *database.Store
	hub   *services.Hub
}

func NewCardHandler(store *database.Store, hub *services.Hub) *CardHandler {
	return &CardHandler{store: store, hub: hub}
}

func (h *CardHandler) ByList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	listID, err := pathID(r, "listID")
	if err != nil {
		http.Error(w, "Invalid list id", http.StatusBadRequest)
		return
	}

	cards, err := h.store.CardsByList(listID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) ByBoard(w http.ResponseWriter, r *http.Request) {
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

	responsibleID, err := optionalIDParam(r, "responsible_id")
	if err != nil {
		http.Error(w, "Invalid responsible id", http.StatusBadRequest)
		return
	}

	cards, err := h.store.CardsByBoard(boardID, userID, responsibleID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	text := r.URL.Query().Get("query")
	if text == "" {
		http.Error(w, "Query text is required", http.StatusBadRequest)
		return
	}

	responsibleID, err := optionalIDParam(r, "responsible_id")
	if err != nil {
		http.Error(w, "Invalid responsible id", http.StatusBadRequest)
		return
	}

	cards, err := h.store.SearchCards(boardID, userID, text, responsibleID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	card, err := h.store.CardByIDAndUser(cardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.CardCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if in.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	card, err := h.store.CreateCard(userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcastCard("card_created", userID, card)
	writeJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var upd database.CardUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	card, err := h.store.UpdateCard(cardID, userID, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcastCard("card_updated", userID, card)
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	card, err := h.store.CardByIDAndUser(cardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.store.DeleteCard(cardID, userID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcastCard("card_deleted", userID, card)
	w.WriteHeader(http.StatusNoContent)
}

// Move relocates a card to {list_id, new_order} and returns the updated card
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var mv database.CardMove
	if err := json.NewDecoder(r.Body).Decode(&mv); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	card, err := h.store.MoveCard(cardID, userID, mv)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcastCard("card_moved", userID, card)
	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Labels(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	labels, err := h.store.LabelsForCard(cardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *CardHandler) CreateLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var in database.LabelCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	label, err := h.store.CreateLabel(cardID, userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

func (h *CardHandler) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	labelID, err := pathID(r, "labelID")
	if err != nil {
		http.Error(w, "Invalid label id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteLabel(labelID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) Subtasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	subtasks, err := h.store.SubtasksForCard(cardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (h *CardHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var in database.SubtaskCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	subtask, err := h.store.CreateSubtask(cardID, userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subtask)
}

func (h *CardHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	subtaskID, err := pathID(r, "subtaskID")
	if err != nil {
		http.Error(w, "Invalid subtask id", http.StatusBadRequest)
		return
	}

	var upd database.SubtaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	subtask, err := h.store.UpdateSubtask(subtaskID, userID, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtask)
}

func (h *CardHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	subtaskID, err := pathID(r, "subtaskID")
	if err != nil {
		http.Error(w, "Invalid subtask id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteSubtask(subtaskID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// broadcastCard resolves the card's board and notifies its watchers.
func (h *CardHandler) broadcastCard(eventType string, userID int64, card *database.Card) {
	list, err := h.store.ListByIDAndUser(card.ListID, userID)
	if err != nil {
		return
	}
	h.hub.Broadcast(services.BoardEvent{Type: eventType, BoardID: list.BoardID, Payload: card})
}

func optionalIDParam(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
