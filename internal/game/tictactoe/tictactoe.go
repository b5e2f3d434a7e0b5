// Package tictactoe implements a two-player tic-tac-toe challenge played on a
// 3x3 grid of buttons.
package tictactoe

import (
	"strconv"
	"strings"

	"discord-game-bot/internal/game"
)

// Mark is the content of a cell.
type Mark int

const (
	Empty Mark = iota
	Challenger
	Challengee
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Options configure a new game.
type Options struct {
	ChallengerID string
	ChallengeeID string
}

// Game is a tic-tac-toe match. The challenger moves first.
type Game struct {
	challengerID string
	challengeeID string
	cells        [9]Mark
	turn         Mark
}

var _ game.Interactive = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New starts an empty board.
func New(opts Options) *Game {
	return &Game{
		challengerID: opts.ChallengerID,
		challengeeID: opts.ChallengeeID,
		turn:         Challenger,
	}
}

func (g *Game) Name() string       { return "Tic Tac Toe" }
func (g *Game) OwnerID() string    { return g.challengerID }
func (g *Game) Multiguesser() bool { return true }
func (g *Game) InThread() bool     { return false }

// Cell returns the mark at index 0-8, row by row.
func (g *Game) Cell(i int) Mark { return g.cells[i] }

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.challengerID, g.challengeeID} }

// Winner implements game.Resulter.
func (g *Game) Winner() string {
	return g.userFor(g.winningMark())
}

func (g *Game) userFor(m Mark) string {
	switch m {
	case Challenger:
		return g.challengerID
	case Challengee:
		return g.challengeeID
	default:
		return ""
	}
}

func (g *Game) winningMark() Mark {
	for _, l := range lines {
		m := g.cells[l[0]]
		if m != Empty && g.cells[l[1]] == m && g.cells[l[2]] == m {
			return m
		}
	}
	return Empty
}

// Draw reports a full board without a winner.
func (g *Game) Draw() bool {
	if g.winningMark() != Empty {
		return false
	}
	for _, m := range g.cells {
		if m == Empty {
			return false
		}
	}
	return true
}

// Finished implements game.Game.
func (g *Game) Finished() bool {
	return g.winningMark() != Empty || g.Draw()
}

// AddGuess accepts a cell number 1-9 from the player to move.
func (g *Game) AddGuess(userID, text string) game.Outcome {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return game.Invalid
	}
	return g.play(userID, n-1)
}

// Press accepts the id of a cell button.
func (g *Game) Press(userID, actionID string) game.Outcome {
	n, err := strconv.Atoi(actionID)
	if err != nil {
		return game.Invalid
	}
	return g.play(userID, n)
}

func (g *Game) play(userID string, cell int) game.Outcome {
	if g.Finished() || userID != g.userFor(g.turn) {
		return game.Invalid
	}
	if cell < 0 || cell >= len(g.cells) || g.cells[cell] != Empty {
		return game.Invalid
	}

	g.cells[cell] = g.turn
	if g.turn == Challenger {
		g.turn = Challengee
	} else {
		g.turn = Challenger
	}
	return game.Valid
}

// Actions returns the 3x3 grid. Taken cells and every cell of a finished
// game are disabled.
func (g *Game) Actions() [][]game.Action {
	finished := g.Finished()
	rows := make([][]game.Action, 3)
	for i, m := range g.cells {
		a := game.Action{
			ID:       strconv.Itoa(i),
			Label:    strconv.Itoa(i + 1),
			Style:    game.StyleSecondary,
			Disabled: finished || m != Empty,
		}
		switch m {
		case Challenger:
			a.Style = game.StylePrimary
		case Challengee:
			a.Style = game.StyleDanger
		}
		rows[i/3] = append(rows[i/3], a)
	}
	return rows
}

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString(game.Mention(g.challengeeID) + " You have been challenged to Tic Tac Toe!\n")
	sb.WriteString("Blue is " + game.Mention(g.challengerID) + ", red is " + game.Mention(g.challengeeID) + ".\n")

	switch {
	case g.winningMark() != Empty:
		sb.WriteString(game.Mention(g.Winner()) + " is the winner!\n")
	case g.Draw():
		sb.WriteString("It is a draw!\n")
	default:
		sb.WriteString("It is currently " + game.Mention(g.userFor(g.turn)) + "'s turn.\n")
	}
	return sb.String()
}
