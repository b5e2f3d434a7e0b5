package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createGameResults = `
	CREATE TABLE IF NOT EXISTS game_results (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL UNIQUE,
		game VARCHAR(64) NOT NULL,
		channel_id VARCHAR(32) NOT NULL,
		winner_id VARCHAR(32),
		players TEXT[] NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const createPlayersIndex = `
	CREATE INDEX IF NOT EXISTS idx_game_results_players ON game_results USING GIN (players)
`

// Migrate creates the tables used by the repositories.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range []string{createGameResults, createPlayersIndex} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
