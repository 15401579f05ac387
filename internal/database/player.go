package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mixgg/mix-service/internal/auth"
	"github.com/mixgg/mix-service/internal/models"
)

func CreatePlayer(ctx context.Context, p *models.Player) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate player id: %w", err)
		}
		p.ID = id
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	p.Password = hash

	q := `INSERT INTO players (id, email, password, username, avatar_url, gc_level, faceit_level, elo_interno, is_ephemeral)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			p.ID, p.Email, p.Password, p.Username, p.AvatarURL,
			p.GCLevel, p.FaceitLevel, p.InternalElo, p.IsEphemeral,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func GetPlayerByEmail(ctx context.Context, email string) (*models.Player, error) {
	var (
		p      models.Player
		avatar *string
	)
	q := `
	SELECT id, email, password, username, avatar_url,
	       gc_level, faceit_level, elo_interno, is_ephemeral
	FROM players
	WHERE email=$1
	`
	err := DB.QueryRow(ctx, q, email).Scan(
		&p.ID, &p.Email, &p.Password, &p.Username, &avatar,
		&p.GCLevel, &p.FaceitLevel, &p.InternalElo, &p.IsEphemeral,
	)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		p.AvatarURL = *avatar
	}
	return &p, nil
}

func GetPlayerByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var (
		p      models.Player
		avatar *string
	)
	q := `
	SELECT id, email, password, username, avatar_url,
	       gc_level, faceit_level, elo_interno, is_ephemeral
	FROM players
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Email, &p.Password, &p.Username, &avatar,
		&p.GCLevel, &p.FaceitLevel, &p.InternalElo, &p.IsEphemeral,
	)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		p.AvatarURL = *avatar
	}
	return &p, nil
}

func AuthenticatePlayer(ctx context.Context, email, password string) (string, error) {
	p, err := GetPlayerByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("player not found or db error: %w", err)
	}

	match, err := auth.VerifyPassword(password, p.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateJWT(p.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create jwt: %w", err)
	}

	return token, nil
}

// SetExternalLevels stores a fresh provider sync for one player. The internal
// elo is deliberately untouched here; only the rating ledger writes it.
func SetExternalLevels(ctx context.Context, id uuid.UUID, gcLevel, faceitLevel int) error {
	q := `UPDATE players SET gc_level=$1, faceit_level=$2 WHERE id=$3`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, gcLevel, faceitLevel, id)
		return err
	})
}
