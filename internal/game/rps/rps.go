// Package rps implements a rock paper scissors challenge between two users.
package rps

import (
	"fmt"
	"strings"

	"discord-game-bot/internal/game"
)

// Pick is a player's choice.
type Pick int

const (
	None Pick = iota
	Rock
	Paper
	Scissors
)

func (p Pick) String() string {
	switch p {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "None"
	}
}

// Emoji returns the symbol shown for the pick.
func (p Pick) Emoji() string {
	switch p {
	case Rock:
		return "🪨"
	case Paper:
		return "📜"
	case Scissors:
		return "✂️"
	default:
		return ""
	}
}

// Beats reports whether p wins against other.
func (p Pick) Beats(other Pick) bool {
	return (p == Rock && other == Scissors) ||
		(p == Paper && other == Rock) ||
		(p == Scissors && other == Paper)
}

var picks = map[string]Pick{
	"rock":     Rock,
	"paper":    Paper,
	"scissors": Scissors,
}

// Options configure a new game.
type Options struct {
	ChallengerID string
	ChallengeeID string
}

// Game is one round. Each player picks once and picks stay hidden until both
// are in.
type Game struct {
	challengerID string
	challengeeID string
	challenger   Pick
	challengee   Pick
}

var _ game.Interactive = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New starts a round.
func New(opts Options) *Game {
	return &Game{challengerID: opts.ChallengerID, challengeeID: opts.ChallengeeID}
}

func (g *Game) Name() string       { return "Rock Paper Scissors" }
func (g *Game) OwnerID() string    { return g.challengerID }
func (g *Game) Multiguesser() bool { return true }
func (g *Game) InThread() bool     { return false }

// Finished reports whether both players have picked.
func (g *Game) Finished() bool { return g.challenger != None && g.challengee != None }

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.challengerID, g.challengeeID} }

// Winner implements game.Resulter. A tie has no winner.
func (g *Game) Winner() string {
	switch {
	case !g.Finished():
		return ""
	case g.challenger.Beats(g.challengee):
		return g.challengerID
	case g.challengee.Beats(g.challenger):
		return g.challengeeID
	default:
		return ""
	}
}

// AddGuess rejects text: a reply would reveal the pick.
func (g *Game) AddGuess(_, _ string) game.Outcome { return game.Invalid }

// Press records the pick of either player. A second pick is refused.
func (g *Game) Press(userID, actionID string) game.Outcome {
	pick, ok := picks[actionID]
	if !ok || g.Finished() {
		return game.Invalid
	}

	var slot *Pick
	switch userID {
	case g.challengerID:
		slot = &g.challenger
	case g.challengeeID:
		slot = &g.challengee
	default:
		return game.Invalid
	}

	if *slot != None {
		return game.AlreadyMade
	}
	*slot = pick
	return game.Valid
}

// Actions returns the three pick buttons until the round is over.
func (g *Game) Actions() [][]game.Action {
	if g.Finished() {
		return nil
	}
	row := make([]game.Action, 0, 3)
	for _, p := range []Pick{Rock, Paper, Scissors} {
		row = append(row, game.Action{
			ID:    strings.ToLower(p.String()),
			Label: p.String(),
			Emoji: p.Emoji(),
			Style: game.StylePrimary,
		})
	}
	return [][]game.Action{row}
}

// Render implements game.Game.
func (g *Game) Render() string {
	if g.Finished() {
		return g.result()
	}

	var sb strings.Builder
	sb.WriteString(game.Mention(g.challengeeID) + " You have been challenged to Rock Paper Scissors!\n")
	sb.WriteString("Both players now need to make their decision below:")
	for _, p := range []struct {
		id   string
		pick Pick
	}{{g.challengerID, g.challenger}, {g.challengeeID, g.challengee}} {
		if p.pick != None {
			sb.WriteString("\n" + game.Mention(p.id) + " has picked.")
		}
	}
	return sb.String()
}

func (g *Game) result() string {
	winner, loser, winnerID := g.challenger, g.challengee, g.challengerID
	switch {
	case g.challenger == g.challengee:
		return fmt.Sprintf("%s == %s\nIt was a tie!", g.challenger.Emoji(), g.challengee.Emoji())
	case g.challengee.Beats(g.challenger):
		winner, loser, winnerID = g.challengee, g.challenger, g.challengeeID
	}
	return fmt.Sprintf("%s >> %s\n%s beats %s, %s wins!",
		winner.Emoji(), loser.Emoji(), winner, strings.ToLower(loser.String()), game.Mention(winnerID))
}
