package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mixgg/mix-service/internal/database"
	"github.com/mixgg/mix-service/internal/models"
)

// CreatePlayerHandler registers a new player account. The two external skill
// levels may be supplied up front; they default to 0 until a provider sync.
func CreatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p models.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}
	if p.Email == "" || p.Password == "" || p.Username == "" {
		http.Error(w, "email, password and username are required", http.StatusBadRequest)
		return
	}

	if err := database.CreatePlayer(r.Context(), &p); err != nil {
		http.Error(w, "failed to create player", http.StatusInternalServerError)
		return
	}

	p.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// LoginHandler checks credentials and sets the auth_token session cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	token, err := database.AuthenticatePlayer(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusOK)
}
