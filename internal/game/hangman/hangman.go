// Package hangman implements a letter guessing game.
package hangman

import (
	"strings"

	"discord-game-bot/internal/game"
)

// DefaultMaxMistakes is how many wrong letters end the game.
const DefaultMaxMistakes = 5

// Status is the state of a hangman game.
type Status int

const (
	Playing Status = iota
	Won
	Lost
)

// Options configure a new game.
type Options struct {
	OwnerID      string
	Word         string
	MaxMistakes  int
	Multiguesser bool
	InThread     bool
}

// Game is a single hangman round.
type Game struct {
	ownerID      string
	word         string
	maxMistakes  int
	multiguesser bool
	inThread     bool
	guesses      []rune
}

var _ game.Game = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New starts a game for opts.Word.
func New(opts Options) *Game {
	maxMistakes := opts.MaxMistakes
	if maxMistakes <= 0 {
		maxMistakes = DefaultMaxMistakes
	}
	return &Game{
		ownerID:      opts.OwnerID,
		word:         strings.ToLower(opts.Word),
		maxMistakes:  maxMistakes,
		multiguesser: opts.Multiguesser,
		inThread:     opts.InThread,
	}
}

func (g *Game) Name() string       { return "Hangman" }
func (g *Game) OwnerID() string    { return g.ownerID }
func (g *Game) Multiguesser() bool { return g.multiguesser }
func (g *Game) InThread() bool     { return g.inThread }
func (g *Game) Finished() bool     { return g.Status() != Playing }

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.ownerID} }

// Winner returns the owner when the word was found.
func (g *Game) Winner() string {
	if g.Status() == Won {
		return g.ownerID
	}
	return ""
}

// Mistakes counts guessed letters that are not in the word.
func (g *Game) Mistakes() int {
	n := 0
	for _, r := range g.guesses {
		if !strings.ContainsRune(g.word, r) {
			n++
		}
	}
	return n
}

// Status derives the game state from the guesses so far.
func (g *Game) Status() Status {
	if g.Mistakes() >= g.maxMistakes {
		return Lost
	}
	for _, r := range g.word {
		if !g.guessed(r) {
			return Playing
		}
	}
	return Won
}

func (g *Game) guessed(r rune) bool {
	for _, guess := range g.guesses {
		if guess == r {
			return true
		}
	}
	return false
}

// AddGuess accepts a single letter a-z.
func (g *Game) AddGuess(_, text string) game.Outcome {
	if g.Finished() {
		return game.Invalid
	}

	guess := strings.ToLower(strings.TrimSpace(text))
	if len(guess) != 1 || guess[0] < 'a' || guess[0] > 'z' {
		return game.Invalid
	}

	r := rune(guess[0])
	if g.guessed(r) {
		return game.AlreadyMade
	}
	g.guesses = append(g.guesses, r)
	return game.Valid
}

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString("You are playing hangman.\n")
	if g.inThread {
		sb.WriteString("Play by sending a message with a letter guess.\n\n")
	} else {
		sb.WriteString("Play by replying to this message with a letter guess.\n\n")
	}

	switch g.Status() {
	case Lost:
		sb.WriteString("You have made too many incorrect guesses\n")
		sb.WriteString("The answer was: " + g.word + ".")
	default:
		for _, r := range g.word {
			if g.guessed(r) {
				sb.WriteRune(r)
			} else {
				sb.WriteRune('_')
			}
		}
		if g.Status() == Won {
			sb.WriteString("\n\nYou win!")
		}
	}

	sb.WriteString("\n\nGuesses: " + string(g.guesses))
	sb.WriteString("\nMistakes: ")
	sb.WriteString(strings.Repeat("✗", g.Mistakes()))
	sb.WriteString(strings.Repeat("·", g.maxMistakes-min(g.Mistakes(), g.maxMistakes)))
	return sb.String()
}
