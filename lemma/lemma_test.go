package lemma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglish(t *testing.T) {
	english, err := NewEnglish()
	require.NoError(t, err)

	testCases := []struct {
		input  string
		expect string
	}{
		{input: "kings", expect: "king"},
		{input: "Queens", expect: "queen"},
		{input: "king", expect: "king"},
		{input: "zzxqv", expect: "zzxqv"},
		{input: "  ", expect: ""},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, english.Lemma(testCase.input), testCase.input)
	}
	assert.True(t, english.InDict("kings"))
	assert.False(t, english.InDict("zzxqv"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "kings", Base(nil, "Kings"))
	assert.Equal(t, "paris", Base(Lowercase, "Paris"))
	assert.Equal(t, "king", Base(Func(func(string) string { return "King" }), "kings"))
	assert.Equal(t, "kings", Base(Func(func(string) string { return "" }), "Kings"))
}
