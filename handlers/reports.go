package handlers

import (
	"net/http"

	"github.com/jlmarquez1986/Neocare/database"
)

// ReportHandler handles the weekly report endpoints. Every endpoint takes
// the ISO week as ?week=YYYY-Www; a malformed value comes back as a 400
// carrying the parse failure reason.
type ReportHandler struct {
	store *database.Store
}

func NewReportHandler(store *database.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.store.Summary(boardID, userID, r.URL.Query().Get("week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) HoursByUser(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.store.HoursByUser(boardID, userID, r.URL.Query().Get("week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) HoursByCard(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.store.HoursByCard(boardID, userID, r.URL.Query().Get("week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) WeeksAvailable(w http.ResponseWriter, r *http.Request) {
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

	weeks, err := h.store.AvailableWeeks(boardID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}
