package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/wordlist"
)

func TestSelector_Index(t *testing.T) {
	testCases := []struct {
		description string
		words       wordlist.List
		date        time.Time
		expect      int
	}{
		{description: "embedded list", words: wordlist.Default(), date: newYear, expect: 111},
		{description: "five words", words: gameWords, date: newYear, expect: 3},
		{description: "three words", words: wordlist.List{"a", "b", "c"}, date: newYear, expect: 0},
		{
			description: "calendar date in its own zone",
			words:       gameWords,
			date:        time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			expect:      3,
		},
		{description: "next day", words: wordlist.Default(), date: newYear.AddDate(0, 0, 1), expect: 125},
	}
	for _, testCase := range testCases {
		selector, err := NewSelector(testCase.words)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, selector.Index(testCase.date), testCase.description)
		assert.Equal(t, testCase.words[testCase.expect], selector.WordForDate(testCase.date), testCase.description)
	}
}

func TestSelector_Deterministic(t *testing.T) {
	selector, err := NewSelector(wordlist.Default())
	require.NoError(t, err)
	assert.Equal(t, "smile", selector.WordForDate(newYear))
	day := newYear
	for i := 0; i < 400; i++ {
		assert.Equal(t, selector.WordForDate(day), selector.WordForDate(day.Add(time.Hour)))
		index := selector.Index(day)
		assert.True(t, index >= 0 && index < selector.Len())
		day = day.AddDate(0, 0, 1)
	}
}

func TestNewSelector_Empty(t *testing.T) {
	_, err := NewSelector(nil)
	assert.Error(t, err)
}
