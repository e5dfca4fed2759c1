package analytics

import (
	"crypto/sha256"
	"errors"
	"math/big"
	"time"

	"github.com/viant/wordvec/wordlist"
)

// DateLayout is the ISO-8601 calendar date hashed to pick the daily word.
const DateLayout = "2006-01-02"

// Selector picks the daily word for a calendar date.
type Selector struct {
	words wordlist.List
	size  *big.Int
}

// NewSelector creates a Selector over a non-empty word list.
func NewSelector(words wordlist.List) (*Selector, error) {
	if len(words) == 0 {
		return nil, errors.New("analytics: daily word list is empty")
	}
	return &Selector{words: words, size: big.NewInt(int64(len(words)))}, nil
}

// Index returns the word list position for date: the SHA-256 digest of the
// date formatted as YYYY-MM-DD, read as a big-endian unsigned integer,
// modulo the list length. The date is taken in its own location.
func (s *Selector) Index(date time.Time) int {
	sum := sha256.Sum256([]byte(date.Format(DateLayout)))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, s.size).Int64())
}

// WordForDate returns the daily word for date.
func (s *Selector) WordForDate(date time.Time) string {
	return s.words[s.Index(date)]
}

// Len returns the word list size.
func (s *Selector) Len() int { return len(s.words) }
