// internal/handlers/mix_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/mixgg/mix-service/internal/auth"
	"github.com/mixgg/mix-service/internal/mix"
	"github.com/mixgg/mix-service/internal/models"
)

// fakeBackend gives the handlers a real Service backed by memory. Only the
// paths these tests exercise need working semantics.
type fakeBackend struct {
	mixes   map[uuid.UUID]*models.Mix
	rosters map[uuid.UUID][]uuid.UUID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		mixes:   map[uuid.UUID]*models.Mix{},
		rosters: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeBackend) InsertMix(_ context.Context, m *models.Mix) error {
	cp := *m
	f.mixes[m.ID] = &cp
	return nil
}

func (f *fakeBackend) GetMix(_ context.Context, id uuid.UUID) (*models.Mix, error) {
	m, ok := f.mixes[id]
	if !ok {
		return nil, mix.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeBackend) SetTeams(_ context.Context, id uuid.UUID, teamA, teamB []uuid.UUID) (bool, error) {
	m, ok := f.mixes[id]
	if !ok || m.Status != models.StatusWaiting {
		return false, nil
	}
	m.Status = models.StatusSorting
	m.TeamA, m.TeamB = teamA, teamB
	return true, nil
}

func (f *fakeBackend) AppendBan(_ context.Context, id uuid.UUID, mapName string, observedBans, maxBans int) (bool, error) {
	m, ok := f.mixes[id]
	if !ok || len(m.BannedMaps) != observedBans || len(m.BannedMaps) >= maxBans {
		return false, nil
	}
	m.BannedMaps = append(m.BannedMaps, mapName)
	return true, nil
}

func (f *fakeBackend) SetLive(_ context.Context, id uuid.UUID, finalMap string) (bool, error) {
	m, ok := f.mixes[id]
	if !ok || m.Status != models.StatusSorting {
		return false, nil
	}
	m.Status = models.StatusLive
	m.FinalMap = finalMap
	return true, nil
}

func (f *fakeBackend) SetServerAddr(_ context.Context, id uuid.UUID, addr string) (bool, error) {
	m, ok := f.mixes[id]
	if !ok || m.Status != models.StatusLive {
		return false, nil
	}
	m.ServerAddr = addr
	return true, nil
}

func (f *fakeBackend) UpsertJoin(_ context.Context, mixID, playerID uuid.UUID, capacity int) (bool, error) {
	roster := f.rosters[mixID]
	if slices.Contains(roster, playerID) {
		return false, nil
	}
	if len(roster) >= capacity {
		return false, mix.ErrRosterFull
	}
	f.rosters[mixID] = append(roster, playerID)
	return true, nil
}

func (f *fakeBackend) ListRoster(_ context.Context, mixID uuid.UUID) ([]models.Player, error) {
	var out []models.Player
	for _, id := range f.rosters[mixID] {
		out = append(out, models.Player{ID: id})
	}
	return out, nil
}

func (f *fakeBackend) FinalizeWin(_ context.Context, mixID uuid.UUID, winner models.Team, _ []uuid.UUID, _ int) error {
	m, ok := f.mixes[mixID]
	if !ok || m.Status != models.StatusLive {
		return mix.ErrConflict
	}
	m.Status = models.StatusFinished
	m.Winner = winner
	return nil
}

func newTestService(f *fakeBackend) *mix.Service {
	return mix.NewService(f, f, f, nil, mix.DefaultMapPool(), nil)
}

func authedRequest(t *testing.T, method, target string, body string, playerID uuid.UUID) *http.Request {
	t.Helper()
	token, err := auth.CreateJWT(playerID.String())
	if err != nil {
		t.Fatalf("failed to create jwt: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+token)
	return req
}

// TestCreateMix checks that /mix/create opens a waiting mix with the caller
// as creator and already on the roster.
func TestCreateMix(t *testing.T) {
	auth.Init() // ephemeral keys, no DB needed
	f := newFakeBackend()
	s := newTestService(f)

	creator := uuid.New()
	req := authedRequest(t, "POST", "/mix/create", "", creator)
	w := httptest.NewRecorder()

	CreateMixHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var m models.Mix
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode mix: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Fatal("mix has no ID")
	}
	if m.CreatorID != creator {
		t.Fatalf("creator mismatch, expected %v got %v", creator, m.CreatorID)
	}
	if m.Status != models.StatusWaiting {
		t.Fatalf("expected waiting status, got %q", m.Status)
	}
	if got := f.rosters[m.ID]; len(got) != 1 || got[0] != creator {
		t.Fatalf("creator not on roster: %v", got)
	}
}

func TestCreateMixRequiresAuth(t *testing.T) {
	auth.Init()
	s := newTestService(newFakeBackend())

	req := httptest.NewRequest("POST", "/mix/create", nil)
	w := httptest.NewRecorder()
	CreateMixHandler(s).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJoinMix(t *testing.T) {
	auth.Init()
	f := newFakeBackend()
	s := newTestService(f)

	creator := uuid.New()
	m, err := s.Create(context.Background(), creator)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joiner := uuid.New()
	body := `{"mix_id":"` + m.ID.String() + `"}`
	w := httptest.NewRecorder()
	JoinMixHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/mix/join", body, joiner))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := f.rosters[m.ID]; len(got) != 2 {
		t.Fatalf("expected 2 on roster, got %v", got)
	}

	// Unknown mix maps to 404.
	body = `{"mix_id":"` + uuid.NewString() + `"}`
	w = httptest.NewRecorder()
	JoinMixHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/mix/join", body, joiner))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown mix, got %d", w.Code)
	}
}

func TestBanMapErrorMapping(t *testing.T) {
	auth.Init()
	f := newFakeBackend()
	s := newTestService(f)

	creator := uuid.New()
	m, err := s.Create(context.Background(), creator)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Unknown map while waiting is a validation error.
	body := `{"mix_id":"` + m.ID.String() + `","map":"de_made_up"}`
	w := httptest.NewRecorder()
	BanMapHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/mix/ban", body, creator))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown map, got %d", w.Code)
	}

	// A non-creator ban before teams exist is forbidden.
	body = `{"mix_id":"` + m.ID.String() + `","map":"de_mirage"}`
	w = httptest.NewRecorder()
	BanMapHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/mix/ban", body, uuid.New()))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-creator ban, got %d", w.Code)
	}

	// Once finished, every ban conflicts.
	f.mixes[m.ID].Status = models.StatusFinished
	w = httptest.NewRecorder()
	BanMapHandler(s).ServeHTTP(w, authedRequest(t, "POST", "/mix/ban", body, creator))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for finished mix, got %d", w.Code)
	}
}
