// Package minesweeper implements minesweeper played through buttons or
// replies such as "C7" (reveal) and "fB2" (flag).
package minesweeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"discord-game-bot/internal/game"
)

// Option is what a move does to a cell.
type Option int

const (
	Reveal Option = iota
	Flag
)

// Stage is the step of the three-stage button input.
type Stage int

const (
	StageOption Stage = iota
	StageLetter
	StageNumber
)

// InputMethod records how the last move was entered.
type InputMethod int

const (
	ViaButtons InputMethod = iota
	ViaReply
)

const (
	actionFlag   = "flag"
	actionReveal = "reveal"
	actionLetter = "col:"
	actionNumber = "row:"
	actionBack   = "back"
)

var moveRegex = regexp.MustCompile(`(?i)^\s*(f?)\s*([a-x])\s*(\d{1,2})\s*$`)

// Options configure a new game.
type Options struct {
	OwnerID string
	Size    int
	Bombs   int
}

type lastMove struct {
	option   Option
	row, col int
	method   InputMethod
	flagged  bool
}

// Game is a minesweeper round. Anyone in the channel may play.
type Game struct {
	ownerID string
	grid    *Grid
	rng     *rand.Rand

	stage  Stage
	option Option
	column int

	last *lastMove
}

var _ game.Interactive = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New creates a game with a covered grid.
func New(opts Options, rng *rand.Rand) *Game {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	bombs := opts.Bombs
	if bombs == 0 {
		bombs = DefaultBombs
	}
	return &Game{
		ownerID: opts.OwnerID,
		grid:    NewGrid(size, bombs),
		rng:     rng,
	}
}

func (g *Game) Name() string       { return "Minesweeper" }
func (g *Game) OwnerID() string    { return g.ownerID }
func (g *Game) Multiguesser() bool { return true }
func (g *Game) InThread() bool     { return false }
func (g *Game) Finished() bool     { return g.grid.Won() || g.grid.Lost() }

// Grid exposes the grid.
func (g *Game) Grid() *Grid { return g.grid }

// Stage returns the current button stage.
func (g *Game) Stage() Stage { return g.stage }

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.ownerID} }

// Winner implements game.Resulter.
func (g *Game) Winner() string {
	if g.grid.Won() {
		return g.ownerID
	}
	return ""
}

// AddGuess accepts "C7" to reveal or "fC7" to flag.
func (g *Game) AddGuess(_, text string) game.Outcome {
	m := moveRegex.FindStringSubmatch(text)
	if m == nil {
		return game.Invalid
	}

	option := Reveal
	if m[1] != "" {
		option = Flag
	}
	col := int(strings.ToUpper(m[2])[0] - 'A')
	row, err := strconv.Atoi(m[3])
	if err != nil {
		return game.Invalid
	}

	outcome := g.move(option, row-1, col, ViaReply)
	if outcome == game.Valid {
		g.resetStage()
	}
	return outcome
}

func (g *Game) move(option Option, row, col int, method InputMethod) game.Outcome {
	var err error
	if option == Flag {
		err = g.grid.ToggleFlag(row, col)
	} else {
		err = g.grid.Reveal(row, col, g.rng)
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrCellRevealed) && option == Reveal:
		return game.AlreadyMade
	default:
		return game.Invalid
	}

	g.last = &lastMove{
		option:  option,
		row:     row,
		col:     col,
		method:  method,
		flagged: g.grid.At(row, col).State == Flagged,
	}
	return game.Valid
}

func (g *Game) resetStage() {
	g.stage = StageOption
	g.option = Reveal
	g.column = 0
}

// Press walks Option, Letter and Number, applying the move on the last step.
func (g *Game) Press(_, actionID string) game.Outcome {
	if g.Finished() {
		return game.Invalid
	}

	switch {
	case actionID == actionBack:
		switch g.stage {
		case StageLetter:
			g.resetStage()
		case StageNumber:
			g.stage = StageLetter
		default:
			return game.Invalid
		}
		return game.Valid

	case actionID == actionFlag || actionID == actionReveal:
		if g.stage != StageOption {
			return game.Invalid
		}
		g.option = Reveal
		if actionID == actionFlag {
			g.option = Flag
		}
		g.stage = StageLetter
		return game.Valid

	case strings.HasPrefix(actionID, actionLetter):
		col, ok := g.index(strings.TrimPrefix(actionID, actionLetter))
		if g.stage != StageLetter || !ok {
			return game.Invalid
		}
		g.column = col
		g.stage = StageNumber
		return game.Valid

	case strings.HasPrefix(actionID, actionNumber):
		row, ok := g.index(strings.TrimPrefix(actionID, actionNumber))
		if g.stage != StageNumber || !ok {
			return game.Invalid
		}
		outcome := g.move(g.option, row, g.column, ViaButtons)
		if outcome == game.Valid {
			g.resetStage()
		}
		return outcome
	}

	return game.Invalid
}

func (g *Game) index(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= g.grid.Size() {
		return 0, false
	}
	return i, true
}

// Actions returns the buttons for the current stage.
func (g *Game) Actions() [][]game.Action {
	if g.Finished() {
		return nil
	}

	var buttons []game.Action
	switch g.stage {
	case StageOption:
		buttons = []game.Action{
			{ID: actionFlag, Label: "(Un)flag", Style: game.StylePrimary},
			{ID: actionReveal, Label: "Reveal", Style: game.StylePrimary},
		}
	default:
		for i := 0; i < g.grid.Size(); i++ {
			label, id := columnLetter(i), actionLetter+strconv.Itoa(i)
			if g.stage == StageNumber {
				label, id = strconv.Itoa(i+1), actionNumber+strconv.Itoa(i)
			}
			buttons = append(buttons, game.Action{ID: id, Label: label, Style: game.StylePrimary})
		}
		buttons = append(buttons, game.Action{ID: actionBack, Label: "Back", Style: game.StyleDanger})
	}
	return game.ActionRows(buttons)
}

func columnLetter(col int) string {
	return string(rune('A' + col))
}

var keycaps = [...]string{"⬜", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣"}

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString("You are playing minesweeper.\n")
	sb.WriteString("Play using either the buttons below or by replying with a\n")
	sb.WriteString("message like C7 to reveal a square or fB2 to flag instead.")

	if g.last != nil {
		verb := "reveal"
		if g.last.option == Flag {
			verb = "unflag"
			if g.last.flagged {
				verb = "flag"
			}
		}
		method := "the buttons"
		if g.last.method == ViaReply {
			method = "reply"
		}
		fmt.Fprintf(&sb, "\n\nThe last move was to %s cell %s%d via %s.",
			verb, columnLetter(g.last.col), g.last.row+1, method)
	}

	switch {
	case g.grid.Lost():
		sb.WriteString("\n\nYou revealed a bomb. Game over!")
	case g.grid.Won():
		sb.WriteString("\n\nYou win!")
	}

	sb.WriteString("\n" + g.renderGrid() + "\n_ _")
	return sb.String()
}

func (g *Game) renderGrid() string {
	size := g.grid.Size()

	// Braille blank, thin space and six-per-em space line the letters up
	// with the numbered rows; two digit rows need an extra figure space.
	indent := "\u2800\u2009\u2006"
	if size > 9 {
		indent = "\u2800\u2007\u2009\u2006"
	}

	var sb strings.Builder
	sb.WriteString("\n" + indent)
	for c := 0; c < size; c++ {
		if c > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune('\U0001F1E6' + rune(c))
	}

	for r := 0; r < size; r++ {
		fmt.Fprintf(&sb, "\n%d. ", r+1)
		for c := 0; c < size; c++ {
			cell := g.grid.At(r, c)
			switch {
			case cell.State == Covered:
				sb.WriteString("🟩")
			case cell.State == Flagged:
				sb.WriteString("🚩")
			case cell.Bomb:
				sb.WriteString("💣")
			default:
				sb.WriteString(keycaps[cell.Adjacent])
			}
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
