package models

import "github.com/google/uuid"

// Player is one registered account. GCLevel and FaceitLevel mirror the two
// external skill providers and are only written by the profile sync flows;
// InternalElo is only written by the rating ledger at finalize time.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	AvatarURL string `json:"avatar_url,omitempty"`

	GCLevel     int `json:"gc_level"`
	FaceitLevel int `json:"faceit_level"`
	InternalElo int `json:"elo_interno"`

	IsEphemeral bool `json:"is_ephemeral"`
}
