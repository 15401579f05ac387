package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		name string
		from MixStatus
		to   MixStatus
		want bool
	}{
		{"waiting to sorting", StatusWaiting, StatusSorting, true},
		{"sorting to live", StatusSorting, StatusLive, true},
		{"live to finished", StatusLive, StatusFinished, true},
		{"no skip waiting to live", StatusWaiting, StatusLive, false},
		{"no backward sorting to waiting", StatusSorting, StatusWaiting, false},
		{"finished is terminal", StatusFinished, StatusWaiting, false},
		{"no self transition", StatusLive, StatusLive, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
				t.Fatalf("CanAdvanceTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []MixStatus{StatusWaiting, StatusSorting, StatusLive, StatusFinished} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if MixStatus("cancelled").Valid() {
		t.Fatal("unknown status should not be valid")
	}
}

func TestTeamOf(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	outsider := uuid.New()
	m := &Mix{TeamA: []uuid.UUID{a}, TeamB: []uuid.UUID{b}}

	if team, ok := m.TeamOf(a); !ok || team != TeamA {
		t.Fatalf("expected %v on team A, got %v %v", a, team, ok)
	}
	if team, ok := m.TeamOf(b); !ok || team != TeamB {
		t.Fatalf("expected %v on team B, got %v %v", b, team, ok)
	}
	if _, ok := m.TeamOf(outsider); ok {
		t.Fatal("outsider should not be on either team")
	}

	if m2 := (&Mix{}); m2.TeamsAssigned() {
		t.Fatal("empty mix should not have teams assigned")
	}
	if !m.TeamsAssigned() {
		t.Fatal("mix with members should report teams assigned")
	}
}
