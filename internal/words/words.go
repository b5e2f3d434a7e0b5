// Package words loads the word list used by hangman and the word games.
//
// The list is one word per line. Double quotes are stripped, words are
// lower-cased, and anything that is not plain a-z is dropped. Without a
// configured file the small embedded list is used.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

//go:embed wordlist.txt
var embeddedWords string

// ErrEmptyList is returned when a source yields no usable words.
var ErrEmptyList = errors.New("words: list is empty")

const vowels = "aeiou"

// List is a reloadable word list. It is safe for concurrent use.
type List struct {
	mu         sync.RWMutex
	path       string
	// static lists were built in memory and have nothing to reload from.
	static     bool
	all        []string
	vowelIndex map[int][]string
}

// Load reads path, or the embedded list when path is empty.
func Load(path string) (*List, error) {
	l := &List{path: path}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// FromWords builds a list from words already in memory.
func FromWords(words []string) (*List, error) {
	l := &List{static: true}
	normalized, err := normalize(strings.NewReader(strings.Join(words, "\n")))
	if err != nil {
		return nil, err
	}
	if err := l.set(normalized); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload reads the configured source again. On error the previous words
// are kept.
func (l *List) Reload() error {
	if l.static {
		return nil
	}
	var (
		words []string
		err   error
	)
	if l.path == "" {
		words, err = normalize(strings.NewReader(embeddedWords))
	} else {
		words, err = readWordFile(l.path)
	}
	if err != nil {
		return err
	}
	return l.set(words)
}

func (l *List) set(words []string) error {
	if len(words) == 0 {
		return ErrEmptyList
	}

	byVowels := make(map[int][]string)
	for _, w := range words {
		n := CountVowels(w)
		byVowels[n] = append(byVowels[n], w)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = words
	l.vowelIndex = byVowels
	return nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	return normalize(f)
}

func normalize(r io.Reader) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(sc.Text(), `"`, "")))
		if w == "" || !IsLower(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return out, nil
}

// IsLower reports whether s is non-empty and only contains a-z.
func IsLower(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// CountVowels counts every vowel occurrence in w.
func CountVowels(w string) int {
	n := 0
	for _, r := range w {
		if strings.ContainsRune(vowels, r) {
			n++
		}
	}
	return n
}

// IsVowel reports whether r is one of a, e, i, o, u.
func IsVowel(r rune) bool {
	return strings.ContainsRune(vowels, r)
}

// Len returns the number of loaded words.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.all)
}

// Random picks any word.
func (l *List) Random(rng *rand.Rand) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.all[rng.IntN(len(l.all))]
}

// RandomWithVowels picks a word with exactly n vowels. ok is false when the
// list has none.
func (l *List) RandomWithVowels(rng *rand.Rand, n int) (word string, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	candidates := l.vowelIndex[n]
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.IntN(len(candidates))], true
}
