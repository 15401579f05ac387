package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mixgg/mix-service/internal/mix"
	"github.com/mixgg/mix-service/internal/models"
)

// RosterStore tracks (mix, player) join records in mix_players.
type RosterStore struct{}

// UpsertJoin inserts the join record if the roster still has room. The primary
// key on (mix_id, player_id) makes a repeated join a no-op; the count guard in
// the INSERT enforces the capacity at write time rather than in the caller.
func (RosterStore) UpsertJoin(ctx context.Context, mixID, playerID uuid.UUID, capacity int) (bool, error) {
	q := `
	INSERT INTO mix_players (mix_id, player_id, joined_at)
	SELECT $1, $2, now()
	WHERE (SELECT count(*) FROM mix_players WHERE mix_id = $1) < $3
	ON CONFLICT (mix_id, player_id) DO NOTHING
	`
	var inserted bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, mixID, playerID, capacity)
		inserted = ct.RowsAffected() == 1
		return err
	})
	if err != nil {
		return false, err
	}
	if inserted {
		return true, nil
	}

	// Zero rows means either an idempotent re-join or a full roster.
	q = `SELECT 1 FROM mix_players WHERE mix_id=$1 AND player_id=$2 LIMIT 1`
	var tmp int
	err = DB.QueryRow(ctx, q, mixID, playerID).Scan(&tmp)
	if err == pgx.ErrNoRows {
		return false, mix.ErrRosterFull
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// ListRoster returns the joined players in join order.
func (RosterStore) ListRoster(ctx context.Context, mixID uuid.UUID) ([]models.Player, error) {
	q := `
	SELECT p.id, p.username, p.avatar_url, p.gc_level, p.faceit_level, p.elo_interno
	FROM mix_players mp
	JOIN players p ON mp.player_id = p.id
	WHERE mp.mix_id = $1
	ORDER BY mp.joined_at, p.id
	`
	rows, err := DB.Query(ctx, q, mixID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []models.Player
	for rows.Next() {
		var (
			p      models.Player
			avatar *string
		)
		// avatar_url is nullable; players created outside the signup path may
		// not have one.
		if err := rows.Scan(&p.ID, &p.Username, &avatar, &p.GCLevel, &p.FaceitLevel, &p.InternalElo); err != nil {
			return nil, err
		}
		if avatar != nil {
			p.AvatarURL = *avatar
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}
