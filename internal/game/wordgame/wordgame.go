// Package wordgame implements the word manipulation minigames: guess a word
// from its vowel-less form or from a scrambled copy.
package wordgame

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"discord-game-bot/internal/game"
	"discord-game-bot/internal/words"
)

// Mode selects the manipulation applied to the word.
type Mode int

const (
	MissingVowels Mode = iota
	Unscramble
)

// MissingVowelsCount is how many vowels a missing-vowels word has.
const MissingVowelsCount = 4

// ErrNoWord is returned when the word list has no word for the mode.
var ErrNoWord = errors.New("wordgame: no suitable word")

// ParseMode maps a command option value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "missing_vowels", "missingvowels", "missing vowels":
		return MissingVowels, true
	case "unscramble":
		return Unscramble, true
	default:
		return 0, false
	}
}

// String returns the display name of the mode.
func (m Mode) String() string {
	if m == Unscramble {
		return "Unscramble"
	}
	return "Missing Vowels"
}

// Options configure a new game.
type Options struct {
	OwnerID      string
	Mode         Mode
	Multiguesser bool
	InThread     bool
	// Word overrides the random pick. Used by tests.
	Word string
}

// Game is a single word manipulation round.
type Game struct {
	ownerID      string
	mode         Mode
	multiguesser bool
	inThread     bool
	word         string
	shown        string
	guesses      []string
}

var _ game.Game = (*Game)(nil)
var _ game.Resulter = (*Game)(nil)

// New picks a word from list and manipulates it according to opts.Mode.
func New(opts Options, list *words.List, rng *rand.Rand) (*Game, error) {
	word := strings.ToLower(opts.Word)
	if word == "" {
		switch opts.Mode {
		case MissingVowels:
			w, ok := list.RandomWithVowels(rng, MissingVowelsCount)
			if !ok {
				return nil, fmt.Errorf("%w for %s", ErrNoWord, opts.Mode)
			}
			word = w
		default:
			if list.Len() == 0 {
				return nil, fmt.Errorf("%w for %s", ErrNoWord, opts.Mode)
			}
			word = list.Random(rng)
		}
	}

	var shown string
	switch opts.Mode {
	case MissingVowels:
		shown = hideVowels(word)
	default:
		shown = scramble(word, rng)
	}

	return &Game{
		ownerID:      opts.OwnerID,
		mode:         opts.Mode,
		multiguesser: opts.Multiguesser,
		inThread:     opts.InThread,
		word:         word,
		shown:        shown,
	}, nil
}

func hideVowels(w string) string {
	return strings.Map(func(r rune) rune {
		if words.IsVowel(r) {
			return '?'
		}
		return r
	}, w)
}

func scramble(w string, rng *rand.Rand) string {
	b := []byte(w)
	if rng != nil {
		rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
	}
	return string(b)
}

func (g *Game) Name() string       { return "Words" }
func (g *Game) OwnerID() string    { return g.ownerID }
func (g *Game) Multiguesser() bool { return g.multiguesser }
func (g *Game) InThread() bool     { return g.inThread }

// Word returns the answer.
func (g *Game) Word() string { return g.word }

// Shown returns the manipulated word the players see.
func (g *Game) Shown() string { return g.shown }

// Finished reports whether the latest guess was the word.
func (g *Game) Finished() bool {
	return len(g.guesses) > 0 && g.guesses[len(g.guesses)-1] == g.word
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

// AddGuess accepts a word made of a-z letters.
func (g *Game) AddGuess(_, text string) game.Outcome {
	if g.Finished() {
		return game.Invalid
	}

	guess := strings.ToLower(strings.TrimSpace(text))
	if !words.IsLower(guess) {
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

// CorrectLetters counts positions where guess and the word share a letter.
func (g *Game) CorrectLetters(guess string) int {
	n := 0
	for i := 0; i < len(guess) && i < len(g.word); i++ {
		if guess[i] == g.word[i] {
			n++
		}
	}
	return n
}

func (g *Game) feedback(guess string) string {
	n := g.CorrectLetters(guess)
	switch n {
	case 0:
		return "No correct letters"
	case 1:
		return "1 correct letter"
	default:
		return fmt.Sprintf("%d correct letters", n)
	}
}

// Render implements game.Game.
func (g *Game) Render() string {
	var sb strings.Builder
	sb.WriteString("You are playing word manipulation.\n")
	if g.mode == MissingVowels {
		sb.WriteString("Missing vowels word: ")
	} else {
		sb.WriteString("Scrambled word: ")
	}
	sb.WriteString(g.shown + "\n")
	if g.inThread {
		sb.WriteString("Play by sending a message with a word guess.\n")
	} else {
		sb.WriteString("Play by replying to this message with a word guess.\n")
	}

	if len(g.guesses) == 0 {
		return sb.String()
	}

	sb.WriteString("\nGuesses:```")
	for _, guess := range g.guesses {
		sb.WriteString("\n" + guess + ": " + g.feedback(guess))
	}
	if g.Finished() {
		sb.WriteString("\n\nYou win!")
	}
	sb.WriteString("```")
	return sb.String()
}
