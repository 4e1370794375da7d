package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jlmarquez1986/Neocare/database"
)

// TimesheetHandler handles worked-hours endpoints
type TimesheetHandler struct {
	store *database.Store
}

func NewTimesheetHandler(store *database.Store) *TimesheetHandler {
	return &TimesheetHandler{store: store}
}

func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	var in database.TimesheetCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if in.Description == "" {
		http.Error(w, "Description is required", http.StatusBadRequest)
		return
	}

	entry, err := h.store.CreateTimesheet(userID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Mine returns the authenticated user's hour entries
func (h *TimesheetHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	entries, err := h.store.TimesheetsForUser(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	timesheetID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid timesheet id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTimesheet(timesheetID, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
