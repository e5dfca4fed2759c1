package analytics

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/logging"
	"github.com/viant/wordvec/store"
	"github.com/viant/wordvec/vector"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return newYear }),
		WithLocation(time.UTC),
	}, opts...)
	service, err := New(newFixtureStore(t), fixtureLemmas, gameWords, opts...)
	require.NoError(t, err)
	return service
}

func TestService_Game(t *testing.T) {
	ctx := context.Background()
	service := newService(t)

	assert.Equal(t, "pear", service.DailyWord(time.Time{}))
	assert.Equal(t, service.DailyWord(newYear), service.DailyWord(time.Time{}))

	outcome, err := service.EvaluateGuess(ctx, service.DailyWord(time.Time{}), time.Time{})
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, 100.0, outcome.Similarity)

	hint, err := service.Hint(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, hint.Length)
}

func TestService_TodayUsesLocation(t *testing.T) {
	late := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	service := newService(t, WithClock(func() time.Time { return late }), WithLocation(tokyo))
	assert.Equal(t, "2024-01-02", service.Today().Format(DateLayout))
}

func TestService_QueriesAndLogging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	service := newService(t, WithLogger(logging.NewText(&buf, slog.LevelDebug)), WithResults(2), WithMargin(20))

	result, err := service.SolveAnalogy(ctx, "king", "man", "woman", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"queen", "princess"}, words(result.Results))
	assert.Contains(t, buf.String(), "op=analogy")

	score, err := service.Similarity(ctx, "king", "queen")
	require.NoError(t, err)
	assert.Equal(t, 89.82, score.Percentage)

	_, err = service.Similarity(ctx, "king", "zzz")
	assert.EqualError(t, err, "unknown word: zzz")
	assert.Contains(t, buf.String(), "query rejected")

	projection, err := service.Project(ctx, []string{"king", "queen", "zzz"})
	require.NoError(t, err)
	assert.Len(t, projection.Coordinates, 2)
	assert.NotContains(t, buf.String(), "level=ERROR")
}

func TestNew_EmptyWordList(t *testing.T) {
	_, err := New(newFixtureStore(t), nil, nil)
	assert.Error(t, err)
}

func TestService_LoadFailurePropagates(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	failing := store.New(func(context.Context) (vector.Model, error) {
		return nil, errors.New("vocabulary file missing")
	})
	service, err := New(failing, fixtureLemmas, gameWords,
		WithClock(func() time.Time { return newYear }),
		WithLocation(time.UTC),
		WithLogger(logging.NewText(&buf, slog.LevelDebug)),
	)
	require.NoError(t, err)

	calls := []struct {
		description string
		run         func() error
	}{
		{description: "similarity", run: func() error { _, err := service.Similarity(ctx, "king", "queen"); return err }},
		{description: "analogy", run: func() error { _, err := service.SolveAnalogy(ctx, "king", "man", "woman", 3); return err }},
		{description: "project", run: func() error { _, err := service.Project(ctx, []string{"king", "queen"}); return err }},
		{description: "guess", run: func() error { _, err := service.EvaluateGuess(ctx, "apple", time.Time{}); return err }},
		{description: "hint", run: func() error { _, err := service.Hint(ctx, time.Time{}); return err }},
	}
	for _, call := range calls {
		err := call.run()
		require.Error(t, err, call.description)
		assert.ErrorContains(t, err, "vocabulary file missing", call.description)
		assert.NotErrorIs(t, err, ErrUnknownWord, call.description)
		assert.NotErrorIs(t, err, ErrInsufficientWords, call.description)
		assert.False(t, IsExpected(err), call.description)
	}
	assert.Contains(t, buf.String(), "query failed")
}
