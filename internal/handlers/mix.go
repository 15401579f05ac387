// internal/handlers/mix.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mixgg/mix-service/internal/mix"
	"github.com/mixgg/mix-service/internal/models"
)

type mixRequest struct {
	MixID  string `json:"mix_id"`
	Map    string `json:"map,omitempty"`
	Winner string `json:"winner,omitempty"`
	Addr   string `json:"addr,omitempty"`
}

// decodeMixRequest reads the body and parses the target mix id.
func decodeMixRequest(r *http.Request) (mixRequest, uuid.UUID, error) {
	var req mixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, uuid.Nil, err
	}
	id, err := uuid.Parse(req.MixID)
	if err != nil {
		return req, uuid.Nil, err
	}
	return req, id, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// CreateMixHandler opens a new mix with the caller as creator.
func CreateMixHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		m, err := s.Create(r.Context(), playerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, m)
	}
}

// GetMixHandler returns the current mix record; clients call this after each
// change signal.
func GetMixHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "invalid mix id", http.StatusBadRequest)
			return
		}
		m, err := s.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, m)
	}
}

// RosterHandler returns the ordered roster of a mix.
func RosterHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "invalid mix id", http.StatusBadRequest)
			return
		}
		roster, err := s.RosterOf(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, roster)
	}
}

// JoinMixHandler puts the caller on the roster. Re-joining is a no-op.
func JoinMixHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		_, mixID, err := decodeMixRequest(r)
		if err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if err := s.Join(r.Context(), mixID, playerID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// BalanceMixHandler splits a full roster into the two fives. Creator only.
func BalanceMixHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		_, mixID, err := decodeMixRequest(r)
		if err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		m, err := s.Balance(r.Context(), mixID, playerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, m)
	}
}

// BanMapHandler records one veto step for the caller's side.
func BanMapHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		req, mixID, err := decodeMixRequest(r)
		if err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		m, err := s.BanMap(r.Context(), mixID, playerID, req.Map)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, m)
	}
}

// FinalizeMixHandler records the winner and applies the rating deltas.
func FinalizeMixHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		req, mixID, err := decodeMixRequest(r)
		if err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		m, err := s.Finalize(r.Context(), mixID, playerID, models.Team(req.Winner))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, m)
	}
}

// SetServerHandler stores the game server address of a live mix.
func SetServerHandler(s *mix.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := playerFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		req, mixID, err := decodeMixRequest(r)
		if err != nil || req.Addr == "" {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if err := s.SetServerAddr(r.Context(), mixID, playerID, req.Addr); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
