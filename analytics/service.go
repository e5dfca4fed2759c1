package analytics

import (
	"context"
	"time"

	"github.com/viant/wordvec/lemma"
	"github.com/viant/wordvec/logging"
	"github.com/viant/wordvec/wordlist"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the query logger; the default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResults sets the default analogy result count.
func WithResults(n int) Option {
	return func(s *Service) { s.results = n }
}

// WithMargin sets the analogy neighbour overshoot; values below
// DefaultMargin are raised to it.
func WithMargin(margin int) Option {
	return func(s *Service) { s.margin = margin }
}

// WithClock sets the time source used when a call passes a zero date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// Service is the caller-facing entry point wiring every component over one
// vector store.
type Service struct {
	logger   *logging.Logger
	results  int
	margin   int
	now      func() time.Time
	location *time.Location

	scorer    *Scorer
	solver    *Solver
	projector *Projector
	selector  *Selector
	evaluator *Evaluator
	hinter    *Hinter
}

// New creates a Service. A nil lemmatizer compares lower-cased words.
func New(vectors Vectors, lemmatizer lemma.Lemmatizer, words wordlist.List, opts ...Option) (*Service, error) {
	s := &Service{
		logger:   logging.Noop(),
		results:  DefaultResults,
		margin:   DefaultMargin,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	selector, err := NewSelector(words)
	if err != nil {
		return nil, err
	}
	s.selector = selector
	s.scorer = NewScorer(vectors)
	s.solver = NewSolver(vectors, lemmatizer, s.results, s.margin)
	s.projector = NewProjector(vectors)
	s.evaluator = NewEvaluator(vectors, s.scorer, selector)
	s.hinter = NewHinter(vectors, lemmatizer, selector, s.margin)
	return s, nil
}

// Today returns the current calendar day in the configured location.
func (s *Service) Today() time.Time {
	return s.now().In(s.location)
}

func (s *Service) resolveDate(date time.Time) time.Time {
	if date.IsZero() {
		return s.Today()
	}
	return date
}

func (s *Service) log(ctx context.Context, op string, started time.Time, err error, args ...any) {
	s.logger.LogQuery(ctx, op, time.Since(started), err, err != nil && !IsExpected(err), args...)
}

// SolveAnalogy answers a - b + c; n <= 0 uses the configured default.
func (s *Service) SolveAnalogy(ctx context.Context, a, b, c string, n int) (AnalogyResult, error) {
	started := time.Now()
	result, err := s.solver.Solve(ctx, AnalogyQuery{A: a, B: b, C: c, N: n})
	s.log(ctx, "analogy", started, err, "equation", result.Equation, "results", len(result.Results))
	return result, err
}

// Similarity scores two words.
func (s *Service) Similarity(ctx context.Context, word1, word2 string) (Score, error) {
	started := time.Now()
	score, err := s.scorer.Similarity(ctx, word1, word2)
	s.log(ctx, "similarity", started, err, "percentage", score.Percentage)
	return score, err
}

// Project places words on a 2D plane.
func (s *Service) Project(ctx context.Context, words []string) (Projection, error) {
	started := time.Now()
	projection, err := s.projector.Project(ctx, words)
	s.log(ctx, "project", started, err, "words", len(projection.Coordinates), "missing", len(projection.Missing))
	return projection, err
}

// DailyWord returns the word for date; a zero date means today.
func (s *Service) DailyWord(date time.Time) string {
	return s.selector.WordForDate(s.resolveDate(date))
}

// EvaluateGuess scores guess against the word for date; a zero date means
// today.
func (s *Service) EvaluateGuess(ctx context.Context, guess string, date time.Time) (GuessOutcome, error) {
	started := time.Now()
	date = s.resolveDate(date)
	outcome, err := s.evaluator.Evaluate(ctx, guess, date)
	s.log(ctx, "guess", started, err, "date", date.Format(DateLayout), "correct", outcome.Correct)
	return outcome, err
}

// Hint returns hints for the word of date; a zero date means today.
func (s *Service) Hint(ctx context.Context, date time.Time) (Hint, error) {
	started := time.Now()
	date = s.resolveDate(date)
	hint, err := s.hinter.Hint(ctx, date)
	s.log(ctx, "hint", started, err, "date", date.Format(DateLayout))
	return hint, err
}
