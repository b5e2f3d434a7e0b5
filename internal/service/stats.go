// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/game"
	"discord-game-bot/internal/model"
	"discord-game-bot/internal/repository"
)

// ResultStore persists finished games.
type ResultStore interface {
	Create(ctx context.Context, res *model.GameResult) error
	StatsForUser(ctx context.Context, userID string) ([]*model.GameStats, error)
}

// StatsService records finished games and reports per-user statistics.
type StatsService struct {
	results ResultStore
	now     func() time.Time
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(results ResultStore) *StatsService {
	return &StatsService{
		results: results,
		now:     time.Now,
	}
}

// Record stores the result of a finished session. Games that cannot name
// their players are skipped.
func (s *StatsService) Record(ctx context.Context, sess *game.Session) error {
	res, ok := BuildResult(sess, s.now())
	if !ok {
		log.Debug().
			Str("session_id", sess.ID.String()).
			Str("game", sess.Game.Name()).
			Msg("Game does not report results, skipping")
		return nil
	}

	if err := s.results.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrResultDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to record result: %w", err)
	}

	log.Info().
		Str("session_id", sess.ID.String()).
		Str("game", res.Game).
		Strs("players", res.Players).
		Msg("Game result recorded")
	return nil
}

// StatsForUser returns the per-game totals for userID.
func (s *StatsService) StatsForUser(ctx context.Context, userID string) ([]*model.GameStats, error) {
	return s.results.StatsForUser(ctx, userID)
}

// BuildResult converts a finished session into a GameResult. It reports
// false when the game is still running or cannot report its players.
func BuildResult(sess *game.Session, finishedAt time.Time) (*model.GameResult, bool) {
	if sess == nil || !sess.Game.Finished() {
		return nil, false
	}
	r, ok := sess.Game.(game.Resulter)
	if !ok {
		return nil, false
	}

	players := slices.Compact(slices.Clone(r.Players()))
	if len(players) == 0 {
		return nil, false
	}

	res := &model.GameResult{
		SessionID:  sess.ID,
		Game:       sess.Game.Name(),
		ChannelID:  sess.ChannelID,
		Players:    players,
		StartedAt:  sess.CreatedAt,
		FinishedAt: finishedAt,
	}
	if winner := r.Winner(); winner != "" {
		res.WinnerID = &winner
	}
	return res, true
}

// Totals sums played and won games across stats.
func Totals(stats []*model.GameStats) (played, won int64) {
	for _, st := range stats {
		played += st.Played
		won += st.Won
	}
	return played, won
}
