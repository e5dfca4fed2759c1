package analytics

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownWord is matched by UnknownWordError and UnknownWordsError.
	ErrUnknownWord = errors.New("unknown word")

	// ErrInsufficientWords is matched by InsufficientWordsError.
	ErrInsufficientWords = errors.New("insufficient words")
)

// UnknownWordError reports a single word without a vector.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string { return "unknown word: " + e.Word }

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }

// UnknownWordsError reports every query word without a vector, in query order.
type UnknownWordsError struct {
	Words []string
}

func (e *UnknownWordsError) Error() string {
	return "unknown word(s): " + strings.Join(e.Words, ", ")
}

func (e *UnknownWordsError) Unwrap() error { return ErrUnknownWord }

// InsufficientWordsError reports a projection with fewer than two usable
// words. Missing lists the inputs that had no vector.
type InsufficientWordsError struct {
	Missing []string
}

func (e *InsufficientWordsError) Error() string {
	return "need at least 2 valid words with vectors"
}

func (e *InsufficientWordsError) Unwrap() error { return ErrInsufficientWords }

// IsExpected reports whether err is a first-class query outcome rather than
// an infrastructure failure.
func IsExpected(err error) bool {
	return errors.Is(err, ErrUnknownWord) || errors.Is(err, ErrInsufficientWords)
}
