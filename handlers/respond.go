package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jlmarquez1986/Neocare/database"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store errors onto HTTP statuses. Ownership misses
// and missing rows both come back as ErrNotFound and stay a plain 404.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, database.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Store error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}

// pathID parses the named integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
