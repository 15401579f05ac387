package models

import (
	"time"

	"github.com/google/uuid"
)

// MixStatus is the lifecycle state of a mix. It only ever advances through
// waiting -> sorting -> live -> finished; there is no backward transition.
type MixStatus string

const (
	StatusWaiting  MixStatus = "waiting"
	StatusSorting  MixStatus = "sorting"
	StatusLive     MixStatus = "live"
	StatusFinished MixStatus = "finished"
)

// nextStatus is the full transition table. Anything not listed is illegal.
var nextStatus = map[MixStatus]MixStatus{
	StatusWaiting: StatusSorting,
	StatusSorting: StatusLive,
	StatusLive:    StatusFinished,
}

// Valid reports whether s is one of the four known states.
func (s MixStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusSorting, StatusLive, StatusFinished:
		return true
	}
	return false
}

// CanAdvanceTo reports whether the single legal transition out of s is to next.
func (s MixStatus) CanAdvanceTo(next MixStatus) bool {
	return nextStatus[s] == next
}

// Team identifies one of the two sides of a mix.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Valid reports whether t is team A or team B.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Mix is the aggregate record of one 5v5 lobby. TeamA/TeamB are empty until
// the creator balances; BannedMaps is append-only until teams are re-sorted;
// FinalMap is empty until the veto leaves exactly one map in the pool.
type Mix struct {
	ID        uuid.UUID `json:"id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Status    MixStatus `json:"status"`

	TeamA []uuid.UUID `json:"team_a"`
	TeamB []uuid.UUID `json:"team_b"`

	BannedMaps []string `json:"banned_maps"`
	FinalMap   string   `json:"final_map,omitempty"`

	Winner     Team   `json:"winner,omitempty"`
	ServerAddr string `json:"server_addr,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TeamsAssigned reports whether the mix has been balanced into two sides.
func (m *Mix) TeamsAssigned() bool {
	return len(m.TeamA) > 0 || len(m.TeamB) > 0
}

// TeamOf returns which side playerID is on, if any.
func (m *Mix) TeamOf(playerID uuid.UUID) (Team, bool) {
	for _, id := range m.TeamA {
		if id == playerID {
			return TeamA, true
		}
	}
	for _, id := range m.TeamB {
		if id == playerID {
			return TeamB, true
		}
	}
	return "", false
}

// Members returns the player ids on the given side.
func (m *Mix) Members(t Team) []uuid.UUID {
	if t == TeamA {
		return m.TeamA
	}
	return m.TeamB
}
