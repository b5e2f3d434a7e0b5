package words

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	l, err := Load("")
	require.NoError(t, err)

	assert.Greater(t, l.Len(), 100)

	rng := rand.New(rand.NewPCG(1, 2))
	w, ok := l.RandomWithVowels(rng, 4)
	require.True(t, ok, "embedded list needs four-vowel words for missing vowels")
	assert.Equal(t, 4, CountVowels(w))
	assert.True(t, IsLower(l.Random(rng)))
}

func TestLoad_FileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "\"Apple\"\nbanana\n\nkiwi fruit\nBANANA\nnaïve\n  cherry  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	l, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"apple", "banana", "cherry"}, l.all)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("123\n!!\n"), 0o600))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrEmptyList)
}

func TestReload_KeepsOldWordsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0o600))

	l, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
	assert.ErrorIs(t, l.Reload(), ErrEmptyList)
	assert.Equal(t, 2, l.Len())

	require.NoError(t, os.WriteFile(path, []byte("gamma\n"), 0o600))
	require.NoError(t, l.Reload())
	assert.Equal(t, 1, l.Len())
}

func TestCountVowels(t *testing.T) {
	tests := map[string]int{
		"":         0,
		"rhythm":   0,
		"test":     1,
		"dinosaur": 4,
		"queue":    4,
	}
	for word, want := range tests {
		assert.Equal(t, want, CountVowels(word), word)
	}
}

func TestRandomWithVowels_None(t *testing.T) {
	l, err := FromWords([]string{"rhythm", "cat"})
	require.NoError(t, err)

	_, ok := l.RandomWithVowels(rand.New(rand.NewPCG(1, 1)), 4)
	assert.False(t, ok)
}

func TestFromWords_ReloadKeepsWords(t *testing.T) {
	l, err := FromWords([]string{"Go", "gopher", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "gopher"}, l.all)

	require.NoError(t, l.Reload())
	assert.Equal(t, 2, l.Len())

	_, err = FromWords(nil)
	assert.ErrorIs(t, err, ErrEmptyList)
}
