package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jlmarquez1986/Neocare/database"
)

// BoardHandler handles board CRUD endpoints
type BoardHandler struct {
	store *database.Store
}

func NewBoardHandler(store *database.Store) *BoardHandler {
	return &BoardHandler{store: store}
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	boards, err := h.store.BoardsByUser(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.BoardCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if in.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	board, err := h.store.CreateBoard(userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	boardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}

	var in database.BoardCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	board, err := h.store.UpdateBoardTitle(boardID, userID, in.Title)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	boardID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteBoard(boardID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
