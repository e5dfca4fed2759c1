package cover

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/wordvec/index/bruteforce"
)

func randomVectors(n, dim int, seed int64) ([]string, [][]float32) {
	r := rand.New(rand.NewSource(seed))
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%03d", i)
		v := make([]float32, dim)
		for j := range v {
			v[j] = r.Float32()*2 - 1
		}
		vecs[i] = v
	}
	return ids, vecs
}

func TestIndex_MatchesBruteForceOnFullScan(t *testing.T) {
	ids, vecs := randomVectors(200, 8, 7)
	cov := New(WithBase(1.5))
	require.NoError(t, cov.Build(ids, vecs))
	brute := &bruteforce.Index{}
	require.NoError(t, brute.Build(ids, vecs))

	query := vecs[42]
	gotIDs, gotScores, err := cov.Query(query, 0)
	require.NoError(t, err)
	wantIDs, wantScores, err := brute.Query(query, 0)
	require.NoError(t, err)

	assert.Equal(t, wantIDs, gotIDs)
	require.Len(t, gotScores, len(wantScores))
	for i := range wantScores {
		assert.InDelta(t, wantScores[i], gotScores[i], 1e-9)
	}
	assert.Equal(t, "v042", gotIDs[0])
}

func TestIndex_CosineMetric(t *testing.T) {
	ids, vecs := randomVectors(150, 6, 5)
	cov := New(WithMetric(MetricCosine))
	assert.Equal(t, MetricCosine, cov.Metric())
	require.NoError(t, cov.Build(ids, vecs))
	brute := &bruteforce.Index{}
	require.NoError(t, brute.Build(ids, vecs))

	gotIDs, _, err := cov.Query(vecs[9], 0)
	require.NoError(t, err)
	wantIDs, _, err := brute.Query(vecs[9], 0)
	require.NoError(t, err)
	assert.Equal(t, wantIDs, gotIDs)

	top, scores, err := cov.Query(vecs[9], 3)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.LessOrEqual(t, len(top), 3)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}

	assert.Equal(t, MetricEuclidean, New(WithMetric("manhattan")).Metric())
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricEuclidean, m)
	m, err = ParseMetric(" Cosine ")
	require.NoError(t, err)
	assert.Equal(t, MetricCosine, m)
	_, err = ParseMetric("manhattan")
	assert.Error(t, err)
}

func TestIndex_TopK(t *testing.T) {
	ids, vecs := randomVectors(100, 4, 11)
	cov := New()
	require.NoError(t, cov.Build(ids, vecs))
	got, scores, err := cov.Query(vecs[3], 5)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 5)
	assert.Equal(t, "v003", got[0])
	assert.InDelta(t, 1.0, scores[0], 1e-6)
}

func TestIndex_MarshalRoundTrip(t *testing.T) {
	ids, vecs := randomVectors(20, 3, 3)
	cov := New()
	require.NoError(t, cov.Build(ids, vecs))
	data, err := cov.MarshalBinary()
	require.NoError(t, err)

	restored := New(WithBoundStrategy(BoundPerNode))
	require.NoError(t, restored.UnmarshalBinary(data))
	a, _, err := cov.Query(vecs[0], 0)
	require.NoError(t, err)
	b, _, err := restored.Query(vecs[0], 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIndex_Errors(t *testing.T) {
	cov := New()
	ids, _, err := cov.Query([]float32{1}, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, cov.Build([]string{"a"}, [][]float32{{1, 0}}))
	_, _, err = cov.Query([]float32{1}, 1)
	assert.Error(t, err)
	assert.Error(t, cov.Build([]string{"a"}, nil))
}
