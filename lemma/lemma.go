// Package lemma reduces inflected words to a base form.
package lemma

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer maps a word to its base form. It never fails; unknown words
// come back in a best-effort normalised form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Func adapts a function to Lemmatizer.
type Func func(word string) string

// Lemma calls f.
func (f Func) Lemma(word string) string { return f(word) }

// Lowercase is the fallback lemmatizer: the lower-cased word.
var Lowercase Lemmatizer = Func(strings.ToLower)

// English is a dictionary lemmatizer for English.
type English struct {
	lemmatizer *golem.Lemmatizer
}

// NewEnglish loads the embedded English dictionary.
func NewEnglish() (*English, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("lemma: load english dictionary: %w", err)
	}
	return &English{lemmatizer: l}, nil
}

// Lemma returns the lower-cased dictionary base form, or the lower-cased
// word when it is not in the dictionary.
func (e *English) Lemma(word string) string {
	lower := strings.ToLower(strings.TrimSpace(word))
	if lower == "" {
		return ""
	}
	return strings.ToLower(e.lemmatizer.Lemma(lower))
}

// InDict reports whether the dictionary knows word.
func (e *English) InDict(word string) bool {
	return e.lemmatizer.InDict(strings.ToLower(word))
}

// Base returns the lower-cased lemma of word, falling back to the
// lower-cased word when l is nil or yields nothing.
func Base(l Lemmatizer, word string) string {
	lower := strings.ToLower(word)
	if l == nil {
		return lower
	}
	if base := strings.ToLower(l.Lemma(word)); base != "" {
		return base
	}
	return lower
}
