// Package dispatch routes chat messages and button presses to the game
// session they belong to.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"discord-game-bot/internal/game"
	"discord-game-bot/internal/pkg/lock"
)

// DefaultLockTimeout bounds how long an event waits for a busy session.
const DefaultLockTimeout = 5 * time.Second

// Inbound is a chat message as seen by the dispatcher.
type Inbound struct {
	AuthorID  string
	ChannelID string
	MessageID string
	// ReferencedMessageID is the message being replied to, if any.
	ReferencedMessageID string
	Content             string
}

// Press is a button press on a game message.
type Press struct {
	UserID    string
	ChannelID string
	MessageID string
	ActionID  string
}

// Outbound performs the chat side effects of a move.
type Outbound interface {
	// EditGame rewrites the session's message with its current render.
	EditGame(ctx context.Context, s *game.Session) error
	// DeleteMessage removes a consumed input message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// NotifyAlreadyMade tells the author that their guess was tried before.
	NotifyAlreadyMade(ctx context.Context, in Inbound) error
}

// Recorder receives every session that reached a terminal state.
type Recorder interface {
	Record(ctx context.Context, s *game.Session) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder sets where finished sessions are reported.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithLockTimeout overrides DefaultLockTimeout.
func WithLockTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.lockTimeout = timeout
		}
	}
}

// Dispatcher applies inbound events to registered sessions. Events for the
// same session are serialized with a per-session lock.
type Dispatcher struct {
	registry    *game.Registry
	locks       *lock.KeyLock
	out         Outbound
	recorder    Recorder
	lockTimeout time.Duration
}

// New creates a Dispatcher.
func New(registry *game.Registry, locks *lock.KeyLock, out Outbound, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:    registry,
		locks:       locks,
		out:         out,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve finds the session a message continues. A reply is matched by the
// message it references and nothing else; other messages are matched by
// their channel, which is registered for games running in a thread.
func (d *Dispatcher) Resolve(in Inbound) (*game.Session, bool) {
	if in.ReferencedMessageID != "" {
		return d.registry.Lookup(in.ReferencedMessageID)
	}
	return d.registry.Lookup(in.ChannelID)
}

// HandleMessage applies a chat message to the session it continues.
// handled reports whether the message reached a game and was accepted
// (Valid or AlreadyMade).
func (d *Dispatcher) HandleMessage(ctx context.Context, in Inbound) (handled bool, err error) {
	s, ok := d.Resolve(in)
	if !ok {
		return false, nil
	}
	if !s.Game.Multiguesser() && in.AuthorID != s.Game.OwnerID() {
		return false, nil
	}
	if strings.TrimSpace(in.Content) == "" {
		return false, nil
	}

	logger := sessionLogger(s).With().
		Str("user_id", in.AuthorID).
		Str("message_id", in.MessageID).
		Logger()

	var outcome game.Outcome
	err = d.withSession(ctx, s, func() error {
		if s.Game.Finished() || !d.live(s) {
			outcome = game.Invalid
			return nil
		}
		outcome = s.Game.AddGuess(in.AuthorID, in.Content)
		logger.Debug().Stringer("outcome", outcome).Msg("Guess applied")
		return d.apply(ctx, s, outcome, logger)
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			logger.Warn().Msg("Session busy, dropping message")
		}
		return false, fmt.Errorf("failed to handle message: %w", err)
	}

	switch outcome {
	case game.AlreadyMade:
		if err := d.out.NotifyAlreadyMade(ctx, in); err != nil {
			logger.Warn().Err(err).Msg("Failed to send already made notice")
		}
	case game.Invalid:
		return false, nil
	}

	if err := d.out.DeleteMessage(ctx, in.ChannelID, in.MessageID); err != nil {
		logger.Debug().Err(err).Msg("Failed to delete guess message")
	}
	return true, nil
}

// HandlePress applies a button press to the session shown on the pressed
// message and returns its outcome. Presses on unknown or text-only games
// and presses by other users are Invalid.
func (d *Dispatcher) HandlePress(ctx context.Context, p Press) (game.Outcome, error) {
	s, ok := d.registry.Lookup(p.MessageID)
	if !ok {
		return game.Invalid, nil
	}
	ig, ok := s.Game.(game.Interactive)
	if !ok {
		return game.Invalid, nil
	}
	if !ig.Multiguesser() && p.UserID != ig.OwnerID() {
		return game.Invalid, nil
	}

	logger := sessionLogger(s).With().
		Str("user_id", p.UserID).
		Str("action", p.ActionID).
		Logger()

	var outcome game.Outcome
	err := d.withSession(ctx, s, func() error {
		if ig.Finished() || !d.live(s) {
			outcome = game.Invalid
			return nil
		}
		outcome = ig.Press(p.UserID, p.ActionID)
		logger.Debug().Stringer("outcome", outcome).Msg("Press applied")
		return d.apply(ctx, s, outcome, logger)
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			logger.Warn().Msg("Session busy, dropping press")
		}
		return game.Invalid, fmt.Errorf("failed to handle press: %w", err)
	}
	return outcome, nil
}

// withSession runs fn under the session lock and drops the lock once the
// game is over.
func (d *Dispatcher) withSession(ctx context.Context, s *game.Session, fn func() error) error {
	key := s.ID.String()
	var over bool
	err := d.locks.WithLockContext(ctx, key, d.lockTimeout, func() error {
		err := fn()
		over = s.Game.Finished()
		return err
	})
	if err == nil && over {
		d.locks.Forget(key)
	}
	return err
}

// live reports whether s is still the session registered under its message.
func (d *Dispatcher) live(s *game.Session) bool {
	current, ok := d.registry.Lookup(s.MessageID)
	return ok && current == s
}

// apply re-renders after a valid move and retires finished sessions. It runs
// under the session lock.
func (d *Dispatcher) apply(ctx context.Context, s *game.Session, outcome game.Outcome, logger zerolog.Logger) error {
	if outcome != game.Valid {
		return nil
	}

	finished := s.Game.Finished()
	if finished {
		d.registry.RemoveSession(s)
	}

	if err := d.out.EditGame(ctx, s); err != nil {
		logger.Error().Err(err).Msg("Failed to edit game message")
	}

	if !finished {
		return nil
	}

	logger.Info().Msg("Game finished")
	if d.recorder != nil {
		if err := d.recorder.Record(ctx, s); err != nil {
			logger.Error().Err(err).Msg("Failed to record game result")
		}
	}
	return nil
}

func sessionLogger(s *game.Session) zerolog.Logger {
	return log.With().
		Str("session_id", s.ID.String()).
		Str("game", s.Game.Name()).
		Str("channel_id", s.ChannelID).
		Logger()
}
