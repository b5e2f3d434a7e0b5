// Package game defines the contract shared by every minigame and the registry
// that routes chat messages to live game sessions.
package game

// Outcome is the result of feeding one move into a game.
type Outcome int

const (
	// Invalid input is ignored without touching game state.
	Invalid Outcome = iota
	// Valid input was applied.
	Valid
	// AlreadyMade means the same guess was seen before and was not reapplied.
	AlreadyMade
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case AlreadyMade:
		return "already_made"
	default:
		return "invalid"
	}
}

// Mention formats a user id as a chat mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// Game is implemented by every minigame that accepts textual moves.
type Game interface {
	// Name returns the display name (e.g. "Checkers").
	Name() string

	// OwnerID returns the id of the user that started the game.
	OwnerID() string

	// Multiguesser reports whether anyone, not only the owner, may play.
	Multiguesser() bool

	// InThread reports whether the game lives in its own thread, where plain
	// messages count as moves without replying to the game message.
	InThread() bool

	// AddGuess applies a textual move made by userID.
	// It never mutates state unless the outcome is Valid.
	AddGuess(userID, text string) Outcome

	// Render describes the current state. Calling it twice without a move in
	// between returns the same string.
	Render() string

	// Finished reports whether the game reached a terminal state.
	Finished() bool
}

// ActionStyle selects how an action is drawn.
type ActionStyle int

const (
	StylePrimary ActionStyle = iota
	StyleSecondary
	StyleSuccess
	StyleDanger
)

// Action is one button offered by an interactive game.
type Action struct {
	ID       string
	Label    string
	Emoji    string
	Style    ActionStyle
	Disabled bool
}

// MaxRowWidth is how many actions fit in one row.
const MaxRowWidth = 5

// ActionRows splits actions into rows of at most MaxRowWidth.
func ActionRows(actions []Action) [][]Action {
	var rows [][]Action
	for len(actions) > MaxRowWidth {
		rows = append(rows, actions[:MaxRowWidth])
		actions = actions[MaxRowWidth:]
	}
	if len(actions) > 0 {
		rows = append(rows, actions)
	}
	return rows
}

// Interactive is implemented by games that also offer buttons.
type Interactive interface {
	Game

	// Actions returns the button rows for the current state.
	Actions() [][]Action

	// Press applies a button press by userID.
	Press(userID, actionID string) Outcome
}

// Resulter is implemented by games that can name a winner once finished.
// An empty winner means a draw or a solo loss.
type Resulter interface {
	Winner() string
	Players() []string
}
