// Package wordlist provides the ordered candidate words for the daily game.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/viant/wordvec/vector"
)

//go:embed words.txt
var defaultWords string

// List is an ordered, non-empty sequence of normalised words. Index
// stability matters: the daily word is picked by position.
type List []string

// Default returns the embedded word list.
func Default() List {
	list, err := Parse(strings.NewReader(defaultWords))
	if err != nil {
		panic(fmt.Sprintf("wordlist: embedded list: %v", err))
	}
	return list
}

// Load reads a word list file.
func Load(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordlist: %w", err)
	}
	defer f.Close()
	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("wordlist: %s: %w", path, err)
	}
	return list, nil
}

// Parse reads one word per line. Blank lines and lines starting with '#'
// are skipped; words are normalised and duplicates rejected.
func Parse(r io.Reader) (List, error) {
	var list List
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := vector.Normalize(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		list = append(list, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New("word list is empty")
	}
	if dups := lo.FindDuplicates(list); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate words: %s", strings.Join(dups, ", "))
	}
	return list, nil
}

// Missing returns the words of the list for which has reports false.
func (l List) Missing(has func(word string) bool) []string {
	return lo.Reject(l, func(word string, _ int) bool { return has(word) })
}
