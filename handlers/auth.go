package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/services"
)

// AuthHandler handles authentication-related endpoints
type AuthHandler struct {
	authService *services.AuthService
	store       *database.Store
}

func NewAuthHandler(authService *services.AuthService, store *database.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

// Register creates a new user account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Validate email
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	// Reject duplicate registrations
	if _, err := h.store.UserByEmail(req.Email); err == nil {
		http.Error(w, "Email already registered", http.StatusBadRequest)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		log.Printf("Error looking up user: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.store.CreateUser(req.Email, hash); err != nil {
		log.Printf("Error creating user: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
	})
}

// Login verifies credentials and issues a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// A missing user and a wrong password get the same answer
	user, err := h.store.UserByEmail(req.Email)
	if err != nil {
		http.Error(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	if !h.authService.VerifyPassword(req.Password, user.HashedPassword) {
		http.Error(w, "Incorrect email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.CreateToken(user.ID)
	if err != nil {
		log.Printf("Error creating token: %v", err)
		http.Error(w, "Authentication error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// VerifyToken checks if a bearer token is valid
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	// Get token from Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Missing authorization header", http.StatusUnauthorized)
		return
	}

	// Extract token from Bearer format
	authParts := strings.Split(authHeader, " ")
	if len(authParts) != 2 || authParts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return
	}

	userID, err := h.authService.VerifyToken(authParts[1])
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	user, err := h.store.UserByID(userID)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     user.ID,
		"email":  user.Email,
		"status": "valid",
	})
}
