package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/viant/wordvec/vector"
)

// Score is a cosine similarity and its percentage on a 0 to 100 scale.
type Score struct {
	Cosine     float64 `json:"raw_similarity"`
	Percentage float64 `json:"similarity"`
}

// Percentage maps a cosine in [-1, 1] to [0, 100], rounded to 2 decimals.
func Percentage(cosine float64) float64 {
	return round2((cosine + 1) * 50)
}

// round2 rounds the exact binary value of v to 2 decimals, ties to even, so
// scores match the ones the game has always shown.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// Scorer computes pairwise similarity.
type Scorer struct {
	vectors Vectors
}

// NewScorer creates a Scorer.
func NewScorer(vectors Vectors) *Scorer {
	return &Scorer{vectors: vectors}
}

// Similarity returns the cosine similarity of two words. When both are
// unknown, word1 is reported.
func (s *Scorer) Similarity(ctx context.Context, word1, word2 string) (Score, error) {
	word1, word2 = vector.Normalize(word1), vector.Normalize(word2)
	v1, ok, err := s.vectors.Vector(ctx, word1)
	if err != nil {
		return Score{}, fmt.Errorf("analytics: similarity: %w", err)
	}
	if !ok {
		return Score{}, &UnknownWordError{Word: word1}
	}
	v2, ok, err := s.vectors.Vector(ctx, word2)
	if err != nil {
		return Score{}, fmt.Errorf("analytics: similarity: %w", err)
	}
	if !ok {
		return Score{}, &UnknownWordError{Word: word2}
	}
	cosine, err := vector.CosineSimilarity(v1, v2)
	if err != nil {
		return Score{}, fmt.Errorf("analytics: similarity of %q and %q: %w", word1, word2, err)
	}
	return Score{Cosine: cosine, Percentage: Percentage(cosine)}, nil
}
