package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/store"
	"github.com/viant/wordvec/vocab"
)

func euclid(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func planar(a, b Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestProjector_Partition(t *testing.T) {
	projector := NewProjector(newFixtureStore(t))
	projection, err := projector.Project(context.Background(), []string{"King", "queen", " ", "king", "zzz", "apple", "ZZZ"})
	require.NoError(t, err)
	assert.Equal(t, []string{"king", "queen", "apple"}, projection.Words)
	assert.Equal(t, []string{"zzz"}, projection.Missing)
	assert.Len(t, projection.Coordinates, 3)
	for _, word := range projection.Words {
		assert.Contains(t, projection.Coordinates, word)
	}
}

func TestProjector_PreservesPlanarDistances(t *testing.T) {
	// Three points always lie on a plane, so two principal axes keep their
	// pairwise distances.
	projector := NewProjector(newFixtureStore(t))
	projection, err := projector.Project(context.Background(), []string{"king", "queen", "apple"})
	require.NoError(t, err)
	index := map[string][]float32{"king": fixtureVectors[0], "queen": fixtureVectors[1], "apple": fixtureVectors[7]}
	for x, vx := range index {
		for y, vy := range index {
			assert.InDelta(t, euclid(vx, vy), planar(projection.Coordinates[x], projection.Coordinates[y]), 1e-6, x+"/"+y)
		}
	}

	again, err := projector.Project(context.Background(), []string{"king", "queen", "apple"})
	require.NoError(t, err)
	assert.Equal(t, projection.Coordinates, again.Coordinates)
}

func TestProjector_TwoWords(t *testing.T) {
	projector := NewProjector(newFixtureStore(t))
	projection, err := projector.Project(context.Background(), []string{"king", "pear"})
	require.NoError(t, err)
	king, pear := projection.Coordinates["king"], projection.Coordinates["pear"]
	assert.InDelta(t, 0, king.Y, 1e-9)
	assert.InDelta(t, 0, pear.Y, 1e-9)
	assert.InDelta(t, euclid(fixtureVectors[0], fixtureVectors[8]), math.Abs(king.X-pear.X), 1e-6)
	assert.InDelta(t, 0, king.X+pear.X, 1e-9, "scores are centred")
}

func TestProjector_SingleAxis(t *testing.T) {
	model, err := vocab.NewMemory([]string{"a", "b", "c"}, [][]float32{{1}, {2}, {4}})
	require.NoError(t, err)
	projector := NewProjector(store.FromModel(model))
	projection, err := projector.Project(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	for _, c := range projection.Coordinates {
		assert.Equal(t, 0.0, c.Y)
	}
	assert.InDelta(t, 3, math.Abs(projection.Coordinates["a"].X-projection.Coordinates["c"].X), 1e-9)
	assert.InDelta(t, 5.0/3, projection.Coordinates["c"].X, 1e-9, "largest score is positive")
}

func TestProjector_InsufficientWords(t *testing.T) {
	projector := NewProjector(newFixtureStore(t))
	testCases := []struct {
		description string
		input       []string
		missing     []string
	}{
		{description: "single valid word", input: []string{"king"}, missing: []string{}},
		{description: "single unknown word", input: []string{"zzz"}, missing: []string{"zzz"}},
		{description: "duplicates collapse", input: []string{"king", "KING", "zzz"}, missing: []string{"zzz"}},
		{description: "empty", input: nil, missing: []string{}},
	}
	for _, testCase := range testCases {
		projection, err := projector.Project(context.Background(), testCase.input)
		var insufficient *InsufficientWordsError
		require.True(t, errors.As(err, &insufficient), testCase.description)
		assert.Equal(t, testCase.missing, insufficient.Missing, testCase.description)
		assert.Equal(t, testCase.missing, projection.Missing, testCase.description)
		assert.Empty(t, projection.Coordinates, testCase.description)
		assert.ErrorIs(t, err, ErrInsufficientWords)
	}
}
