package checkers

import (
	"regexp"
	"strings"

	"discord-game-bot/internal/game"
)

// Stage is the step of the two-stage button input.
type Stage int

const (
	// StageOrigin shows one button per movable token.
	StageOrigin Stage = iota
	// StageTarget shows the destinations of the selected token and Back.
	StageTarget
)

const (
	actionOrigin = "o:"
	actionTarget = "t:"
	actionBack   = "back"
)

var moveRegex = regexp.MustCompile(`(?i)^\s*([a-h][1-8])\s*,\s*([a-h][1-8])\s*$`)

// Options configure a new game.
type Options struct {
	ChallengerID string
	ChallengeeID string
	// Legacy drops ANSI colours for clients that cannot show them.
	Legacy   bool
	InThread bool
}

// Game is a two-player checkers match. The challenger plays Player1 (blue,
// moving up) and moves first.
type Game struct {
	engine       *Engine
	challengerID string
	challengeeID string
	legacy       bool
	inThread     bool

	stage    Stage
	selected Position
}

var _ game.Interactive = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New starts a game in the standard layout.
func New(opts Options) *Game {
	return &Game{
		engine:       NewEngine(),
		challengerID: opts.ChallengerID,
		challengeeID: opts.ChallengeeID,
		legacy:       opts.Legacy,
		inThread:     opts.InThread,
	}
}

// Name implements game.Game.
func (g *Game) Name() string { return "Checkers" }

// OwnerID implements game.Game.
func (g *Game) OwnerID() string { return g.challengerID }

// Multiguesser is always true: both players reply, and AddGuess checks whose
// turn it is.
func (g *Game) Multiguesser() bool { return true }

// InThread implements game.Game.
func (g *Game) InThread() bool { return g.inThread }

// Finished implements game.Game.
func (g *Game) Finished() bool { return g.engine.Status() != Playing }

// Engine exposes the rules engine.
func (g *Game) Engine() *Engine { return g.engine }

// Stage returns the current button stage.
func (g *Game) Stage() Stage { return g.stage }

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.challengerID, g.challengeeID} }

// Winner implements game.Resulter.
func (g *Game) Winner() string {
	switch g.engine.Status() {
	case Player1Won:
		return g.challengerID
	case Player2Won:
		return g.challengeeID
	default:
		return ""
	}
}

func (g *Game) userFor(p Player) string {
	if p == Player1 {
		return g.challengerID
	}
	return g.challengeeID
}

func (g *Game) isCurrentPlayer(userID string) bool {
	return g.userFor(g.engine.Turn().Player) == userID
}

// AddGuess accepts a reply like "C3, D4" from the player to move.
func (g *Game) AddGuess(userID, text string) game.Outcome {
	if g.Finished() || !g.isCurrentPlayer(userID) {
		return game.Invalid
	}

	m := moveRegex.FindStringSubmatch(text)
	if m == nil {
		return game.Invalid
	}
	from, err := ParsePosition(m[1])
	if err != nil {
		return game.Invalid
	}
	to, err := ParsePosition(m[2])
	if err != nil {
		return game.Invalid
	}

	if err := g.engine.MakeMove(from, to, ViaReply); err != nil {
		return game.Invalid
	}
	g.stage = StageOrigin
	return game.Valid
}

// Press handles the origin, target and back buttons.
func (g *Game) Press(userID, actionID string) game.Outcome {
	if g.Finished() || !g.isCurrentPlayer(userID) {
		return game.Invalid
	}

	switch {
	case actionID == actionBack:
		if g.stage != StageTarget {
			return game.Invalid
		}
		g.stage = StageOrigin
		return game.Valid

	case strings.HasPrefix(actionID, actionOrigin):
		if g.stage != StageOrigin {
			return game.Invalid
		}
		origin, err := ParsePosition(strings.TrimPrefix(actionID, actionOrigin))
		if err != nil || len(g.engine.Targets(origin)) == 0 {
			return game.Invalid
		}
		g.selected = origin
		g.stage = StageTarget
		return game.Valid

	case strings.HasPrefix(actionID, actionTarget):
		if g.stage != StageTarget {
			return game.Invalid
		}
		target, err := ParsePosition(strings.TrimPrefix(actionID, actionTarget))
		if err != nil {
			return game.Invalid
		}
		if err := g.engine.MakeMove(g.selected, target, ViaButtons); err != nil {
			return game.Invalid
		}
		g.stage = StageOrigin
		return game.Valid
	}

	return game.Invalid
}

// Actions returns the buttons for the current stage. A finished game has none.
func (g *Game) Actions() [][]game.Action {
	if g.Finished() {
		return nil
	}

	var buttons []game.Action
	switch g.stage {
	case StageTarget:
		for _, m := range g.engine.Targets(g.selected) {
			style := game.StylePrimary
			if m.Capture {
				style = game.StyleSuccess
			}
			buttons = append(buttons, game.Action{
				ID:    actionTarget + m.To.String(),
				Label: m.To.String(),
				Style: style,
			})
		}
		buttons = append(buttons, game.Action{ID: actionBack, Label: "Back", Style: game.StyleDanger})
	default:
		for _, p := range g.engine.Origins() {
			buttons = append(buttons, game.Action{
				ID:    actionOrigin + p.String(),
				Label: p.String(),
				Style: game.StylePrimary,
			})
		}
	}
	return game.ActionRows(buttons)
}
