package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/lemma"
	"github.com/viant/wordvec/store"
	"github.com/viant/wordvec/vocab"
	"github.com/viant/wordvec/wordlist"
)

var fixtureWords = []string{"king", "queen", "queens", "man", "woman", "kings", "princess", "apple", "pear"}

var fixtureVectors = [][]float32{
	{0.9, 0.8, 0.1, 0.0},
	{0.85, 0.82, 0.15, 0.9},
	{0.84, 0.81, 0.16, 0.88},
	{0.1, 0.7, 0.0, 0.05},
	{0.05, 0.72, 0.05, 0.95},
	{0.88, 0.79, 0.12, 0.02},
	{0.6, 0.7, 0.2, 0.85},
	{0.0, 0.1, 0.9, 0.3},
	{0.05, 0.15, 0.85, 0.35},
}

// 2024-01-01 selects index 3 ("pear") from a five word list.
var gameWords = wordlist.List{"king", "queen", "apple", "pear", "man"}

var newYear = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

var fixtureLemmas = lemma.Func(func(word string) string {
	switch word {
	case "queens":
		return "queen"
	case "kings":
		return "king"
	}
	return word
})

func newFixtureStore(t *testing.T) *store.Store {
	t.Helper()
	model, err := vocab.NewMemory(fixtureWords, fixtureVectors)
	require.NoError(t, err)
	return store.FromModel(model)
}
