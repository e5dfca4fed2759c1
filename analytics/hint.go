package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/viant/wordvec/lemma"
)

// Hint reveals partial information about the daily word.
type Hint struct {
	Length      int    `json:"length"`
	FirstLetter string `json:"first_letter"`
	// Similar is the closest vocabulary word with a different base form, or
	// empty when the daily word has no vector.
	Similar string `json:"similar,omitempty"`
}

// Hinter builds hints for the daily word.
type Hinter struct {
	vectors    Vectors
	lemmatizer lemma.Lemmatizer
	selector   *Selector
	margin     int
}

// NewHinter creates a Hinter. margin bounds how many neighbours are scanned
// for the similar word.
func NewHinter(vectors Vectors, lemmatizer lemma.Lemmatizer, selector *Selector, margin int) *Hinter {
	return &Hinter{vectors: vectors, lemmatizer: lemmatizer, selector: selector, margin: max(margin, DefaultMargin)}
}

// Hint returns the length, first letter and a related word for date.
func (h *Hinter) Hint(ctx context.Context, date time.Time) (Hint, error) {
	target := h.selector.WordForDate(date)
	first, _ := utf8.DecodeRuneInString(target)
	hint := Hint{Length: utf8.RuneCountInString(target), FirstLetter: string(first)}

	v, ok, err := h.vectors.Vector(ctx, target)
	if err != nil {
		return hint, fmt.Errorf("analytics: hint: %w", err)
	}
	if !ok {
		return hint, nil
	}
	neighbors, err := h.vectors.NearestNeighbors(ctx, v, 1+h.margin)
	if err != nil {
		return hint, fmt.Errorf("analytics: hint neighbours: %w", err)
	}
	targetBase := lemma.Base(h.lemmatizer, target)
	for _, candidate := range neighbors {
		if lemma.Base(h.lemmatizer, candidate.Word) == targetBase || strings.EqualFold(candidate.Word, target) {
			continue
		}
		hint.Similar = lemma.Base(h.lemmatizer, candidate.Word)
		break
	}
	return hint, nil
}
