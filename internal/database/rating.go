package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mixgg/mix-service/internal/mix"
	"github.com/mixgg/mix-service/internal/models"
)

// RatingStore applies the finalize transaction.
type RatingStore struct{}

// FinalizeWin moves the mix live -> finished and credits every winner with
// delta elo_interno in one transaction. The status UPDATE is the concurrency
// guard: a second finalize attempt matches zero rows and the whole transaction
// reports a conflict without touching any rating. Each credit is recorded in
// mix_rating_credits keyed on (mix_id, player_id); the increment only runs
// when the credit row is new, so a replay can never credit a player twice.
func (RatingStore) FinalizeWin(ctx context.Context, mixID uuid.UUID, winner models.Team, winners []uuid.UUID, delta int) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE mixes SET status=$2, winner=$3 WHERE id=$1 AND status=$4`,
			mixID, string(models.StatusFinished), string(winner), string(models.StatusLive),
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return mix.ErrConflict
		}

		for _, playerID := range winners {
			ct, err := tx.Exec(ctx,
				`INSERT INTO mix_rating_credits (mix_id, player_id, delta)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (mix_id, player_id) DO NOTHING`,
				mixID, playerID, delta,
			)
			if err != nil {
				return err
			}
			if ct.RowsAffected() == 0 {
				// Already credited by an earlier attempt.
				continue
			}
			if _, err := tx.Exec(ctx,
				`UPDATE players SET elo_interno = elo_interno + $2 WHERE id=$1`,
				playerID, delta,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
