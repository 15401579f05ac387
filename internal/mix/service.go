package mix

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mixgg/mix-service/internal/models"
)

// WinRatingDelta is added to each winner's elo_interno at finalize.
const WinRatingDelta = 25

// defaultOpTimeout bounds every store round-trip; a stalled backend call must
// not hang a client forever.
const defaultOpTimeout = 5 * time.Second

// RecordStore is the authoritative mix record. Every mutating method is a
// conditional write: it applies the change only when the stored record still
// satisfies the stated precondition, and reports false when it does not.
type RecordStore interface {
	InsertMix(ctx context.Context, m *models.Mix) error
	GetMix(ctx context.Context, id uuid.UUID) (*models.Mix, error)
	// SetTeams transitions waiting -> sorting, persisting both fives and
	// resetting the ban list and final map.
	SetTeams(ctx context.Context, id uuid.UUID, teamA, teamB []uuid.UUID) (bool, error)
	// AppendBan appends mapName only when the stored ban count still equals
	// observedBans, stays below maxBans, and the mix is not yet live. The
	// ceiling keeps the last pool map unbannable no matter what the caller
	// observed.
	AppendBan(ctx context.Context, id uuid.UUID, mapName string, observedBans, maxBans int) (bool, error)
	// SetLive transitions sorting -> live and fixes the final map, only when
	// the status is still sorting and no final map is set.
	SetLive(ctx context.Context, id uuid.UUID, finalMap string) (bool, error)
	// SetServerAddr stores the connection string while the mix is live.
	SetServerAddr(ctx context.Context, id uuid.UUID, addr string) (bool, error)
}

// RosterStore tracks which players joined which mix.
type RosterStore interface {
	// UpsertJoin records the join, refusing the capacity+1-th distinct player
	// with ErrRosterFull. It returns false for an already-joined player (a
	// no-op, not an error).
	UpsertJoin(ctx context.Context, mixID, playerID uuid.UUID, capacity int) (bool, error)
	ListRoster(ctx context.Context, mixID uuid.UUID) ([]models.Player, error)
}

// RatingStore applies the finalize transaction: the live -> finished
// transition and the per-winner rating credits must commit together or not at
// all, and a retried finalize must never credit a player twice.
type RatingStore interface {
	FinalizeWin(ctx context.Context, mixID uuid.UUID, winner models.Team, winners []uuid.UUID, delta int) error
}

// ChangeNotifier tells observers that a mix record changed; the signal carries
// no payload, consumers re-read.
type ChangeNotifier interface {
	MixChanged(ctx context.Context, mixID uuid.UUID) error
}

// Service is the single authoritative writer for mix records. All turn,
// creator and status checks happen here, never in the clients.
type Service struct {
	Records  RecordStore
	Roster   RosterStore
	Ratings  RatingStore
	Notifier ChangeNotifier
	Pool     MapPool

	OpTimeout time.Duration
	Log       *logrus.Logger
}

func NewService(rec RecordStore, ros RosterStore, rat RatingStore, n ChangeNotifier, pool MapPool, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		Records:   rec,
		Roster:    ros,
		Ratings:   rat,
		Notifier:  n,
		Pool:      pool,
		OpTimeout: defaultOpTimeout,
		Log:       log,
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.OpTimeout)
}

func (s *Service) notify(ctx context.Context, mixID uuid.UUID) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.MixChanged(ctx, mixID); err != nil {
		s.Log.Warnf("mix %s: change notification failed: %v", mixID, err)
	}
}

// Create opens a new mix in waiting with creatorID already on the roster.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID) (*models.Mix, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	m := &models.Mix{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Status:    models.StatusWaiting,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Records.InsertMix(ctx, m); err != nil {
		return nil, fmt.Errorf("insert mix: %w", err)
	}
	if _, err := s.Roster.UpsertJoin(ctx, m.ID, creatorID, RosterCapacity); err != nil {
		return nil, fmt.Errorf("join creator: %w", err)
	}
	s.notify(ctx, m.ID)
	return m, nil
}

// Get returns the current mix record.
func (s *Service) Get(ctx context.Context, mixID uuid.UUID) (*models.Mix, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.Records.GetMix(ctx, mixID)
}

// RosterOf returns the ordered roster of a mix.
func (s *Service) RosterOf(ctx context.Context, mixID uuid.UUID) ([]models.Player, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.Roster.ListRoster(ctx, mixID)
}

// Join adds playerID to the roster. Joining twice is a no-op; the 11th
// distinct player is refused with ErrRosterFull. Observers are only notified
// when the roster actually changed.
func (s *Service) Join(ctx context.Context, mixID, playerID uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.Records.GetMix(ctx, mixID); err != nil {
		return err
	}
	joined, err := s.Roster.UpsertJoin(ctx, mixID, playerID, RosterCapacity)
	if err != nil {
		return err
	}
	if joined {
		s.notify(ctx, mixID)
	}
	return nil
}

// Balance splits a full roster into two fives and transitions the mix from
// waiting to sorting. Creator only.
func (s *Service) Balance(ctx context.Context, mixID, callerID uuid.UUID) (*models.Mix, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	m, err := s.Records.GetMix(ctx, mixID)
	if err != nil {
		return nil, err
	}
	if callerID != m.CreatorID {
		return nil, ErrNotCreator
	}
	if m.Status != models.StatusWaiting {
		return nil, ErrConflict
	}

	roster, err := s.Roster.ListRoster(ctx, mixID)
	if err != nil {
		return nil, err
	}
	res, err := Balance(roster)
	if err != nil {
		return nil, err
	}

	ok, err := s.Records.SetTeams(ctx, mixID, playerIDs(res.TeamA), playerIDs(res.TeamB))
	if err != nil {
		return nil, err
	}
	if !ok {
		// Someone else already moved the mix out of waiting.
		return nil, ErrConflict
	}
	s.Log.Infof("mix %s balanced, avg power diff %.1f", mixID, res.Diff)
	s.notify(ctx, mixID)
	return s.Records.GetMix(ctx, mixID)
}

// BanMap records one veto step for the caller. While teams are undefined only
// the creator may ban; once teams exist the ban must come from the side whose
// turn it is (team A on even ban counts). Banning a map that is already banned
// is a success no-op so duplicate network retries stay harmless. The append is
// compare-and-swapped on the ban count the caller observed, so two concurrent
// bans for the same turn cannot both land; a hard ceiling in the store keeps
// the last pool map unbannable. The closing ban fixes the one remaining map
// and moves the mix sorting -> live at most once, and if that transition write
// is lost, any later ban call on the mix finishes it before doing anything
// else, so a retry always completes the veto.
func (s *Service) BanMap(ctx context.Context, mixID, callerID uuid.UUID, mapName string) (*models.Mix, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	m, err := s.Records.GetMix(ctx, mixID)
	if err != nil {
		return nil, err
	}
	if m.Status == models.StatusLive || m.Status == models.StatusFinished {
		return nil, ErrConflict
	}
	if !s.Pool.Contains(mapName) {
		return nil, ErrUnknownMap
	}

	// All bans recorded but the mix is still sorting: a prior caller's
	// transition write did not land. Finish it before judging this request.
	if final, done := s.Pool.FinalMap(m.BannedMaps); done {
		if err := s.completeVeto(ctx, mixID, final); err != nil {
			return nil, err
		}
		s.notify(ctx, mixID)
		if slices.Contains(m.BannedMaps, mapName) {
			// The retried closing ban itself.
			return s.Records.GetMix(ctx, mixID)
		}
		return nil, ErrConflict
	}

	if slices.Contains(m.BannedMaps, mapName) {
		return m, nil
	}

	if m.TeamsAssigned() {
		team, ok := m.TeamOf(callerID)
		if !ok {
			return nil, ErrNotParticipant
		}
		if team != TurnFor(len(m.BannedMaps)) {
			return nil, ErrWrongTurn
		}
	} else if callerID != m.CreatorID {
		return nil, ErrNotCreator
	}

	ok, err := s.Records.AppendBan(ctx, mixID, mapName, len(m.BannedMaps), len(s.Pool)-1)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race for this turn; caller should re-read and retry.
		return nil, ErrConflict
	}

	banned := append(slices.Clone(m.BannedMaps), mapName)
	if final, done := s.Pool.FinalMap(banned); done {
		if err := s.completeVeto(ctx, mixID, final); err != nil {
			return nil, err
		}
	}

	s.notify(ctx, mixID)
	return s.Records.GetMix(ctx, mixID)
}

// completeVeto fixes the last unbanned map and moves the mix sorting -> live.
// Losing the conditional write is fine: another caller already applied the
// same transition.
func (s *Service) completeVeto(ctx context.Context, mixID uuid.UUID, final string) error {
	moved, err := s.Records.SetLive(ctx, mixID, final)
	if err != nil {
		return err
	}
	if moved {
		s.Log.Infof("mix %s veto complete, playing %s", mixID, final)
	}
	return nil
}

// Finalize records the winner and credits every winning player with
// WinRatingDelta elo_interno. Creator only, live mixes only. The store applies
// the status change and the five credits atomically; on failure the mix stays
// live and a retry cannot double-credit anyone.
func (s *Service) Finalize(ctx context.Context, mixID, callerID uuid.UUID, winner models.Team) (*models.Mix, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if !winner.Valid() {
		return nil, ErrInvalidWinner
	}
	m, err := s.Records.GetMix(ctx, mixID)
	if err != nil {
		return nil, err
	}
	if callerID != m.CreatorID {
		return nil, ErrNotCreator
	}
	if m.Status != models.StatusLive {
		return nil, ErrConflict
	}

	if err := s.Ratings.FinalizeWin(ctx, mixID, winner, m.Members(winner), WinRatingDelta); err != nil {
		return nil, err
	}
	s.Log.Infof("mix %s finished, team %s wins", mixID, winner)
	s.notify(ctx, mixID)
	return s.Records.GetMix(ctx, mixID)
}

// SetServerAddr stores the game server connection string. Creator only, and
// only once the mix is live.
func (s *Service) SetServerAddr(ctx context.Context, mixID, callerID uuid.UUID, addr string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	m, err := s.Records.GetMix(ctx, mixID)
	if err != nil {
		return err
	}
	if callerID != m.CreatorID {
		return ErrNotCreator
	}
	if m.Status != models.StatusLive {
		return ErrConflict
	}
	ok, err := s.Records.SetServerAddr(ctx, mixID, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.notify(ctx, mixID)
	return nil
}

func playerIDs(players []models.Player) []uuid.UUID {
	ids := make([]uuid.UUID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
