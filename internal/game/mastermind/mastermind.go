// Package mastermind implements a number guessing game scored like classic
// Mastermind, with an optional higher-or-lower mode.
package mastermind

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"discord-game-bot/internal/game"
)

const (
	DefaultDigits = 4
	MinDigits     = 1
	MaxDigits     = 9
)

// Options configure a new game.
type Options struct {
	OwnerID      string
	Digits       int
	HigherLower  bool
	Multiguesser bool
	InThread     bool
	// Secret overrides the random number. Used by tests.
	Secret string
}

// Game is a single mastermind round.
type Game struct {
	ownerID      string
	digits       int
	higherLower  bool
	multiguesser bool
	inThread     bool
	secret       string
	guesses      []string
}

var _ game.Game = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New starts a game with a random secret of opts.Digits digits and no
// leading zero.
func New(opts Options, rng *rand.Rand) *Game {
	digits := opts.Digits
	if digits < MinDigits || digits > MaxDigits {
		digits = DefaultDigits
	}

	secret := opts.Secret
	if secret == "" {
		low := pow10(digits - 1)
		secret = strconv.Itoa(low + rng.IntN(pow10(digits)-low))
	} else {
		digits = len(secret)
	}

	return &Game{
		ownerID:      opts.OwnerID,
		digits:       digits,
		higherLower:  opts.HigherLower,
		multiguesser: opts.Multiguesser,
		inThread:     opts.InThread,
		secret:       secret,
	}
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

func (g *Game) Name() string       { return "Mastermind" }
func (g *Game) OwnerID() string    { return g.ownerID }
func (g *Game) Multiguesser() bool { return g.multiguesser }
func (g *Game) InThread() bool     { return g.inThread }

// Secret returns the number to guess.
func (g *Game) Secret() string { return g.secret }

// Finished reports whether the latest guess was the secret.
func (g *Game) Finished() bool {
	return len(g.guesses) > 0 && g.guesses[len(g.guesses)-1] == g.secret
}

// Players implements game.Resulter.
func (g *Game) Players() []string { return []string{g.ownerID} }

// Winner implements game.Resulter.
func (g *Game) Winner() string {
	if g.Finished() {
		return g.ownerID
	}
	return ""
}

// AddGuess accepts a string of decimal digits.
func (g *Game) AddGuess(_, text string) game.Outcome {
	if g.Finished() {
		return game.Invalid
	}

	guess := strings.TrimSpace(text)
	if !isDigits(guess) {
		return game.Invalid
	}
	for _, prev := range g.guesses {
		if prev == guess {
			return game.AlreadyMade
		}
	}

	g.guesses = append(g.guesses, guess)
	return game.Valid
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareValue orders two digit strings by numeric value without parsing,
// so arbitrarily long guesses cannot overflow.
func compareValue(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Score counts digits in the right place, then digits present elsewhere.
// Each secret digit is matched at most once.
func Score(secret, guess string) (exact, misplaced int) {
	remainingSecret := make(map[byte]int)
	var remainingGuess []byte

	for i := 0; i < len(guess); i++ {
		if i < len(secret) && guess[i] == secret[i] {
			exact++
			continue
		}
		remainingGuess = append(remainingGuess, guess[i])
		if i < len(secret) {
			remainingSecret[secret[i]]++
		}
	}
	for i := len(guess); i < len(secret); i++ {
		remainingSecret[secret[i]]++
	}

	for _, d := range remainingGuess {
		if remainingSecret[d] > 0 {
			remainingSecret[d]--
			misplaced++
		}
	}
	return exact, misplaced
}

// Feedback describes how close guess is.
func (g *Game) Feedback(guess string) string {
	if g.higherLower {
		switch c := compareValue(guess, g.secret); {
		case c > 0:
			return "Too big"
		case c < 0:
			return "Too small"
		default:
			return "Correct"
		}
	}

	low := strconv.Itoa(pow10(g.digits - 1))
	if compareValue(guess, low) < 0 {
		return "Too small"
	}
	if len(strings.TrimLeft(guess, "0")) > g.digits {
		return "Too big"
	}

	exact, misplaced := Score(g.secret, strings.TrimLeft(guess, "0"))
	var sb strings.Builder
	if exact == 0 {
		sb.WriteString("No")
	} else {
		sb.WriteString(strconv.Itoa(exact))
	}
	sb.WriteString(" correctly positioned digit")
	if exact != 1 {
		sb.WriteString("s")
	}
	if misplaced != 0 {
		fmt.Fprintf(&sb, " and %d correct but incorrectly positioned digit", misplaced)
		if misplaced != 1 {
			sb.WriteString("s")
		}
	}
	return sb.String()
}

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString("You are playing mastermind.\n")
	fmt.Fprintf(&sb, "A %d digit number has been generated.\n", g.digits)
	if g.higherLower {
		sb.WriteString("You will be told whether each guess is too big or too small.\n")
	}
	if g.inThread {
		sb.WriteString("Play by sending a message with a number guess.\n")
	} else {
		sb.WriteString("Play by replying to this message with a number guess.\n")
	}

	if len(g.guesses) == 0 {
		return sb.String()
	}

	sb.WriteString("\nGuesses:```")
	for _, guess := range g.guesses {
		sb.WriteString("\n" + guess + ": " + g.Feedback(guess))
	}
	if g.Finished() {
		sb.WriteString("\n\nYou win!")
	}
	sb.WriteString("```")
	return sb.String()
}
