package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/wordvec/vector"
)

// ExactMatch is the similarity reported for a correct guess.
const ExactMatch = 100.0

// GuessOutcome scores a guess against the daily word.
type GuessOutcome struct {
	Guess      string  `json:"guess"`
	Similarity float64 `json:"similarity"`
	Correct    bool    `json:"correct"`
}

// Evaluator scores guesses in the daily game.
type Evaluator struct {
	vectors  Vectors
	scorer   *Scorer
	selector *Selector
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(vectors Vectors, scorer *Scorer, selector *Selector) *Evaluator {
	return &Evaluator{vectors: vectors, scorer: scorer, selector: selector}
}

// Evaluate compares guess with the word for date. An unknown guess yields an
// UnknownWordError; the exact daily word scores ExactMatch without computing
// a cosine.
func (e *Evaluator) Evaluate(ctx context.Context, guess string, date time.Time) (GuessOutcome, error) {
	target := e.selector.WordForDate(date)
	guess = vector.Normalize(guess)
	outcome := GuessOutcome{Guess: guess}
	known, err := e.vectors.HasVector(ctx, guess)
	if err != nil {
		return outcome, fmt.Errorf("analytics: guess: %w", err)
	}
	if !known {
		return outcome, &UnknownWordError{Word: guess}
	}
	if guess == target {
		outcome.Similarity, outcome.Correct = ExactMatch, true
		return outcome, nil
	}
	score, err := e.scorer.Similarity(ctx, guess, target)
	if err != nil {
		return outcome, err
	}
	outcome.Similarity = score.Percentage
	return outcome, nil
}
