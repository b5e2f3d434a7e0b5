// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"discord-game-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrResultNotFound  = errors.New("game result not found")
	ErrResultDuplicate = errors.New("game result already recorded")
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// ResultRepository handles game result persistence.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository instance.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create stores a finished game. A zero ID is replaced with a fresh one.
// Recording the same session twice returns ErrResultDuplicate.
func (r *ResultRepository) Create(ctx context.Context, res *model.GameResult) error {
	const query = `
		INSERT INTO game_results (id, session_id, game, channel_id, winner_id, players, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		res.ID,
		res.SessionID,
		res.Game,
		res.ChannelID,
		res.WinnerID,
		res.Players,
		res.StartedAt,
		res.FinishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrResultDuplicate
		}
		return fmt.Errorf("failed to create game result: %w", err)
	}

	return nil
}

// GetBySession retrieves the result recorded for a session.
// Returns ErrResultNotFound if the session has no result.
func (r *ResultRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.GameResult, error) {
	const query = `
		SELECT id, session_id, game, channel_id, winner_id, players, started_at, finished_at
		FROM game_results
		WHERE session_id = $1
	`

	var res model.GameResult
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&res.ID,
		&res.SessionID,
		&res.Game,
		&res.ChannelID,
		&res.WinnerID,
		&res.Players,
		&res.StartedAt,
		&res.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}

	return &res, nil
}

// StatsForUser returns how many games of each kind userID played and won,
// ordered by game name.
func (r *ResultRepository) StatsForUser(ctx context.Context, userID string) ([]*model.GameStats, error) {
	const query = `
		SELECT game,
		       COUNT(*) AS played,
		       COUNT(*) FILTER (WHERE winner_id = $1) AS won
		FROM game_results
		WHERE $1 = ANY(players)
		GROUP BY game
		ORDER BY game
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats: %w", err)
	}

	stats, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.GameStats])
	if err != nil {
		return nil, fmt.Errorf("failed to scan game stats: %w", err)
	}

	return stats, nil
}
