// Package users exposes registration and login endpoints backed by the SQLite
// store.
package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evtrip/planner/core/logger"
	"github.com/evtrip/planner/infra/store"
)

// Handler serves the account endpoints.
type Handler struct {
	users *store.SQLiteStore
	log   logger.Logger
}

// NewHandler creates the users API handler.
func NewHandler(users *store.SQLiteStore, log logger.Logger) *Handler {
	return &Handler{users: users, log: log}
}

// Register attaches the endpoints to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/users/register", h.handleRegister)
	mux.HandleFunc("/api/users/login", h.handleLogin)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u, err := h.users.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(u); err != nil {
		h.log.Errorf("encode user: %v", err)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.log.Errorf("login: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(u); err != nil {
		h.log.Errorf("encode user: %v", err)
	}
}
