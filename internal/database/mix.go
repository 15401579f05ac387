package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mixgg/mix-service/internal/mix"
	"github.com/mixgg/mix-service/internal/models"
)

// MixStore is the Postgres-backed authoritative mix record. Every state
// transition is a single conditional UPDATE whose WHERE clause carries the
// precondition, so concurrent writers cannot both apply the same transition.
type MixStore struct{}

func (MixStore) InsertMix(ctx context.Context, m *models.Mix) error {
	q := `
	INSERT INTO mixes (id, creator_id, status, team_a, team_b, banned_maps, created_at)
	VALUES ($1, $2, $3, '{}', '{}', '{}', $4)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, m.ID, m.CreatorID, string(m.Status), m.CreatedAt)
		return err
	})
}

func (MixStore) GetMix(ctx context.Context, id uuid.UUID) (*models.Mix, error) {
	var (
		m          models.Mix
		status     string
		finalMap   *string
		winner     *string
		serverAddr *string
	)
	q := `
	SELECT id, creator_id, status, team_a, team_b, banned_maps,
	       final_map, winner, server_addr, created_at
	FROM mixes
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.CreatorID, &status, &m.TeamA, &m.TeamB, &m.BannedMaps,
		&finalMap, &winner, &serverAddr, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, mix.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = models.MixStatus(status)
	if finalMap != nil {
		m.FinalMap = *finalMap
	}
	if winner != nil {
		m.Winner = models.Team(*winner)
	}
	if serverAddr != nil {
		m.ServerAddr = *serverAddr
	}
	return &m, nil
}

// SetTeams applies the waiting -> sorting transition, persisting both fives
// and resetting the veto state.
func (MixStore) SetTeams(ctx context.Context, id uuid.UUID, teamA, teamB []uuid.UUID) (bool, error) {
	q := `
	UPDATE mixes
	SET status=$2, team_a=$3, team_b=$4, banned_maps='{}', final_map=NULL
	WHERE id=$1 AND status=$5
	`
	var applied bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, id, string(models.StatusSorting), teamA, teamB, string(models.StatusWaiting))
		applied = ct.RowsAffected() == 1
		return err
	})
	return applied, err
}

// AppendBan appends one map, keyed on the ban count the caller observed. A
// concurrent ban for the same turn changes the cardinality and loses. The
// maxBans ceiling stops the list one short of the pool size, so the map that
// should become the final map can never be banned away.
func (MixStore) AppendBan(ctx context.Context, id uuid.UUID, mapName string, observedBans, maxBans int) (bool, error) {
	q := `
	UPDATE mixes
	SET banned_maps = array_append(banned_maps, $2)
	WHERE id=$1
	  AND status IN ($3, $4)
	  AND cardinality(banned_maps) = $5
	  AND cardinality(banned_maps) < $6
	  AND NOT ($2 = ANY(banned_maps))
	`
	var applied bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, id, mapName,
			string(models.StatusWaiting), string(models.StatusSorting), observedBans, maxBans)
		applied = ct.RowsAffected() == 1
		return err
	})
	return applied, err
}

// SetLive applies the sorting -> live transition at most once: the guard on
// status and the unset final map makes concurrent completion observers no-ops.
func (MixStore) SetLive(ctx context.Context, id uuid.UUID, finalMap string) (bool, error) {
	q := `
	UPDATE mixes
	SET status=$2, final_map=$3
	WHERE id=$1 AND status=$4 AND final_map IS NULL
	`
	var applied bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, id, string(models.StatusLive), finalMap, string(models.StatusSorting))
		applied = ct.RowsAffected() == 1
		return err
	})
	return applied, err
}

func (MixStore) SetServerAddr(ctx context.Context, id uuid.UUID, addr string) (bool, error) {
	q := `UPDATE mixes SET server_addr=$2 WHERE id=$1 AND status=$3`
	var applied bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, id, addr, string(models.StatusLive))
		applied = ct.RowsAffected() == 1
		return err
	})
	return applied, err
}
