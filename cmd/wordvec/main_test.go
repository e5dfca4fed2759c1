package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gloveFixture = `king 0.9 0.8 0.1 0.0
queen 0.85 0.82 0.15 0.9
queens 0.84 0.81 0.16 0.88
man 0.1 0.7 0.0 0.05
woman 0.05 0.72 0.05 0.95
kings 0.88 0.79 0.12 0.02
princess 0.6 0.7 0.2 0.85
apple 0.0 0.1 0.9 0.3
pear 0.05 0.15 0.85 0.35
`

type fixture struct {
	dir    string
	db     string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	f := fixture{dir: dir, db: filepath.Join(dir, "vocab.db"), config: filepath.Join(dir, "wordvec.toml")}
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("king\nqueen\napple\npear\nman\n"), 0o644))
	toml := "[model]\npath = " + quote(f.db) + "\n\n[game]\nwordlist = " + quote(words) + "\ntimezone = \"UTC\"\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(f.config, []byte(toml), 0o644))
	return f
}

func quote(s string) string { return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"` }

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--config", f.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f fixture) imported(t *testing.T) fixture {
	t.Helper()
	src := filepath.Join(f.dir, "vectors.txt")
	require.NoError(t, os.WriteFile(src, []byte(gloveFixture), 0o644))
	out, err := f.run(t, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 9 words")
	assert.Contains(t, out, "indexed 9 words (brute, dimension 4")
	return f
}

func TestImportAndReindex(t *testing.T) {
	f := newFixture(t).imported(t)

	out, err := f.run(t, "reindex", "--index", "cover")
	require.NoError(t, err)
	assert.Contains(t, out, "indexed 9 words (cover, dimension 4")

	out, err = f.run(t, "import", filepath.Join(f.dir, "vectors.txt"), "--no-index")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 words")
	assert.NotContains(t, out, "indexed")
}

func TestQueries(t *testing.T) {
	f := newFixture(t).imported(t)

	var testCases = []struct {
		description string
		args        []string
		expect      []string
		expectErr   string
	}{
		{
			description: "similarity",
			args:        []string{"similarity", "king", "queen"},
			expect:      []string{"king ~ queen: 89.82"},
		},
		{
			description: "similarity unknown word",
			args:        []string{"similarity", "king", "zebra"},
			expectErr:   "unknown word: zebra",
		},
		{
			description: "analogy",
			args:        []string{"analogy", "king", "man", "woman", "-n", "2"},
			expect:      []string{"king - man + woman", "1.  queen"},
		},
		{
			description: "analogy missing words",
			args:        []string{"analogy", "king", "zebra", "yak"},
			expectErr:   "unknown word(s): zebra, yak",
		},
		{
			description: "project",
			args:        []string{"project", "king,queen", "apple", "zebra"},
			expect:      []string{"king", "queen", "apple", "no vector: zebra"},
		},
		{
			description: "project json",
			args:        []string{"project", "king", "queen", "--json"},
			expect:      []string{`"coordinates"`, `"king"`},
		},
		{
			description: "project too few",
			args:        []string{"project", "king", "zebra"},
			expectErr:   "need at least 2 valid words with vectors",
		},
		{
			description: "daily",
			args:        []string{"daily", "--date", "2024-01-01"},
			expect:      []string{"pear"},
		},
		{
			description: "daily bad date",
			args:        []string{"daily", "--date", "01/01/2024"},
			expectErr:   `invalid date "01/01/2024"`,
		},
		{
			description: "guess",
			args:        []string{"guess", "apple", "--date", "2024-01-01"},
			expect:      []string{"apple: 99.73"},
		},
		{
			description: "guess correct",
			args:        []string{"guess", "Pear", "--date", "2024-01-01"},
			expect:      []string{"pear: 100.00", "correct!"},
		},
		{
			description: "hint",
			args:        []string{"hint", "--date", "2024-01-01"},
			expect:      []string{`starts with "p", 4 letters`, `close to "apple"`},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			out, err := f.run(t, testCase.args...)
			if testCase.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectErr)
				return
			}
			require.NoError(t, err)
			for _, expect := range testCase.expect {
				assert.Contains(t, out, expect)
			}
		})
	}
}

func TestMissingDatabase(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "similarity", "king", "queen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store: load model")
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, bandHot, scoreColor(85))
	assert.Equal(t, bandWarm, scoreColor(84.99))
	assert.Equal(t, bandMild, scoreColor(50))
	assert.Equal(t, bandCold, scoreColor(49.99))
}
