package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mixgg/mix-service/internal/auth"
	"github.com/mixgg/mix-service/internal/mix"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

var errNoSession = errors.New("missing or invalid auth_token")

// playerFromRequest resolves the auth_token cookie to the calling player's id.
func playerFromRequest(r *http.Request) (uuid.UUID, error) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		return uuid.Nil, errNoSession
	}
	sub, err := auth.AuthenticateJWT(extractCookieToken(cookie, "auth_token"))
	if err != nil {
		return uuid.Nil, errNoSession
	}
	playerID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errNoSession
	}
	return playerID, nil
}

// writeServiceError maps the mix error taxonomy onto HTTP statuses. Anything
// unclassified is a storage error and stays opaque to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mix.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case mix.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case mix.IsAuthorization(err):
		http.Error(w, err.Error(), http.StatusForbidden)
	case mix.IsConflict(err):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
