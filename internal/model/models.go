// Package model defines the data models persisted by the game bot.
package model

import (
	"time"

	"github.com/google/uuid"
)

// GameResult is one finished game session.
type GameResult struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Game      string    `db:"game"`
	ChannelID string    `db:"channel_id"`
	// WinnerID is nil for draws and lost solo games.
	WinnerID   *string   `db:"winner_id"`
	Players    []string  `db:"players"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

// Won reports whether userID won this game.
func (r *GameResult) Won(userID string) bool {
	return r.WinnerID != nil && *r.WinnerID == userID
}

// GameStats aggregates one user's results for a single game.
type GameStats struct {
	Game   string `db:"game"`
	Played int64  `db:"played"`
	Won    int64  `db:"won"`
}
