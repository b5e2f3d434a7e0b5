package checkers

import (
	"fmt"
	"strings"

	"discord-game-bot/internal/game"
)

// ANSI sequences understood by Discord's ansi code blocks.
const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1;2m"
	ansiBoldOff   = "\x1b[22m"
	fgBlue        = "\x1b[34m"
	fgCyan        = "\x1b[36m"
	fgRed         = "\x1b[31m"
	fgMagenta     = "\x1b[35m"
	bgLight       = "\x1b[47m"
	bgHighlight   = "\x1b[44m"
	bgDark        = "\x1b[40m"
	cellPadding   = "\u2004"
	letterPadding = "\u2004\u2009"
)

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	challenger := game.Mention(g.challengerID)
	challengee := game.Mention(g.challengeeID)

	fmt.Fprintf(&sb, "%s You have been challenged to Checkers!\n", challengee)
	fmt.Fprintf(&sb, "Blue is %s, red is %s.\n", challenger, challengee)
	sb.WriteString("Play using either the buttons below or by ")
	if g.inThread {
		sb.WriteString("sending")
	} else {
		sb.WriteString("replying with")
	}
	sb.WriteString(" a message like C3, D4 to move a token to a new position.\n\n")

	turn := g.engine.Turn()
	if !g.Finished() {
		fmt.Fprintf(&sb, "It is currently %s's turn.\n", game.Mention(g.userFor(turn.Player)))
		if turn.Kind == ChainCapture {
			fmt.Fprintf(&sb, "The token at %s must keep capturing.\n", turn.From)
		}
	}

	if last := g.engine.Last(); last != nil {
		fmt.Fprintf(&sb, "The last move by %s was to move a %s from %s to %s",
			game.Mention(g.userFor(last.Player)), last.Token, last.From, last.To)
		if last.Captured != nil {
			fmt.Fprintf(&sb, " and capture the %s at %s", last.CapturedToken, *last.Captured)
		}
		if last.Method == ViaButtons {
			sb.WriteString(" via the buttons.\n")
		} else {
			sb.WriteString(" via reply.\n")
		}
	}

	lost1, lost2 := g.engine.Lost(Player1), g.engine.Lost(Player2)
	if lost1 > 0 {
		fmt.Fprintf(&sb, "%s has lost %d token(s)", challenger, lost1)
	}
	if lost2 > 0 {
		if lost1 > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s has lost %d token(s)", challengee, lost2)
	}
	if lost1 > 0 || lost2 > 0 {
		sb.WriteString(".\n")
	}

	sb.WriteString(g.renderBoard())

	switch g.engine.Status() {
	case Player1Won:
		fmt.Fprintf(&sb, "\n%s has won the game!", challenger)
	case Player2Won:
		fmt.Fprintf(&sb, "\n%s has won the game!", challengee)
	}

	return sb.String()
}

func (g *Game) renderBoard() string {
	board := g.engine.Board()
	finished := g.Finished()

	origins := make(map[Position]bool)
	targets := make(map[Position]bool)
	if !finished {
		if g.stage == StageTarget {
			for _, m := range g.engine.Targets(g.selected) {
				targets[m.To] = true
			}
		} else {
			for _, p := range g.engine.Origins() {
				origins[p] = true
			}
		}
	}

	bold, boldOff, reset := ansiBold, ansiBoldOff, ansiReset
	if g.legacy {
		bold, boldOff, reset = "", "", ""
	}

	var sb strings.Builder
	sb.WriteString("```ansi\n")
	sb.WriteString(reset + bold + "  ")
	for col := 0; col < Size; col++ {
		sb.WriteString(letterPadding + string(rune('A'+col)) + letterPadding)
	}

	for row := 0; row < Size; row++ {
		fmt.Fprintf(&sb, "\n%s%s%d%s ", reset, bold, Size-row, boldOff)

		for col := 0; col < Size; col++ {
			p := Position{Row: row, Col: col}
			cell := board.At(p)

			if !g.legacy {
				switch cell.Player {
				case Player1:
					if origins[p] {
						sb.WriteString(fgCyan)
					} else {
						sb.WriteString(fgBlue)
					}
				case Player2:
					if origins[p] {
						sb.WriteString(fgMagenta)
					} else {
						sb.WriteString(fgRed)
					}
				}

				switch {
				case row%2 == col%2:
					sb.WriteString(bgLight)
				case targets[p]:
					sb.WriteString(bgHighlight)
				default:
					sb.WriteString(bgDark)
				}
			}

			sb.WriteString(g.cellGlyph(cell, p, origins[p], targets[p], bold, boldOff))
		}
	}

	sb.WriteString(reset + "```")
	return sb.String()
}

// cellGlyph draws one cell. Without colours, selectable cells are marked with
// brackets and targets with a dot instead.
func (g *Game) cellGlyph(cell Cell, p Position, origin, target bool, bold, boldOff string) string {
	var symbol string
	switch {
	case cell.Token == Regular && cell.Player == Player1:
		symbol = bold + "⦾" + boldOff
	case cell.Token == King && cell.Player == Player1:
		symbol = "♔"
	case cell.Token == Regular && cell.Player == Player2:
		symbol = bold + "⦿" + boldOff
	case cell.Token == King && cell.Player == Player2:
		symbol = "♚"
	}

	if g.legacy {
		switch {
		case symbol != "" && origin:
			return "[" + symbol + "]"
		case symbol != "":
			return " " + symbol + " "
		case target:
			return " · "
		case p.Row%2 == p.Col%2:
			return "   "
		default:
			return " . "
		}
	}

	if symbol == "" {
		return letterPadding + " " + letterPadding
	}
	return cellPadding + symbol + cellPadding
}
