package cover

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/wordvec/index/bruteforce"
	"github.com/viant/wordvec/internal/cover/tree"
	"github.com/viant/wordvec/vector"
)

// BoundStrategy re-exports the tree pruning strategies.
type BoundStrategy = tree.BoundStrategy

const (
	BoundPerNode = tree.BoundPerNode
	BoundLevel   = tree.BoundLevel
)

// DefaultBase is the cover tree expansion base.
const DefaultBase float32 = 1.3

// Metric selects the distance the tree is built and searched with.
type Metric = tree.DistanceFunction

const (
	// MetricEuclidean compares unit vectors, which orders neighbours exactly
	// as cosine similarity does and keeps pruning sound.
	MetricEuclidean = tree.DistanceFunctionEuclidean
	// MetricCosine compares raw vectors by 1 - cosine. It skips
	// normalisation but is not a metric, so pruning may miss neighbours.
	MetricCosine = tree.DistanceFunctionCosine
)

// ParseMetric validates a metric name; empty means euclidean.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MetricEuclidean, nil
	case MetricEuclidean, MetricCosine:
		return m, nil
	default:
		return "", fmt.Errorf("cover: unsupported metric %q", s)
	}
}

// Option configures an Index.
type Option func(*Index)

// WithBase sets the cover tree base; values <= 1 are ignored.
func WithBase(base float32) Option {
	return func(i *Index) {
		if base > 1 {
			i.base = base
		}
	}
}

// WithMetric sets the tree distance; unknown metrics are ignored.
func WithMetric(m Metric) Option {
	return func(i *Index) {
		if m.Function() != nil {
			i.metric = m
		}
	}
}

// WithBoundStrategy sets the pruning strategy.
func WithBoundStrategy(s BoundStrategy) Option {
	return func(i *Index) { i.bound = s }
}

// Index implements a cosine kNN index on top of a cover tree.
type Index struct {
	base   float32
	bound  BoundStrategy
	metric Metric
	ids    []string
	vecs   [][]float32
	dim    int
	tree   *tree.Tree[int32]
}

// New creates an empty index.
func New(opts ...Option) *Index {
	i := &Index{base: DefaultBase, bound: BoundPerNode, metric: MetricEuclidean}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Build constructs the tree from ids and vectors.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.New("cover: ids/vectors length mismatch")
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.tree = tree.NewTree[int32](i.base, i.metric)
	i.tree.SetBoundStrategy(i.bound)
	i.dim = 0
	if len(vectors) == 0 {
		return nil
	}
	i.dim = len(vectors[0])
	for j, v := range vectors {
		if len(v) != i.dim {
			return fmt.Errorf("cover: inconsistent dims %d vs %d", len(v), i.dim)
		}
		if vector.Norm(v) == 0 {
			continue
		}
		i.tree.Insert(int32(j), i.point(v))
	}
	return nil
}

// Query returns up to k ids ordered by decreasing cosine similarity.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || i.tree == nil {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("cover: query dim %d != index dim %d", len(query), i.dim)
	}
	if vector.Norm(query) == 0 {
		return nil, nil, nil
	}
	if k <= 0 || k > len(i.ids) {
		k = len(i.ids)
	}
	found := i.tree.KNearestNeighbors(i.point(query), k)
	type hit struct {
		idx   int32
		score float64
	}
	hits := make([]hit, 0, len(found))
	for _, n := range found {
		idx := i.tree.Value(n.Point)
		score, err := vector.CosineSimilarity(query, i.vecs[idx])
		if err != nil {
			return nil, nil, err
		}
		hits = append(hits, hit{idx: idx, score: score})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return i.ids[hits[a].idx] < i.ids[hits[b].idx]
	})
	ids := make([]string, len(hits))
	scores := make([]float64, len(hits))
	for n, h := range hits {
		ids[n] = i.ids[h.idx]
		scores[n] = h.score
	}
	return ids, scores, nil
}

func (i *Index) point(v []float32) *tree.Point {
	if i.metric == MetricCosine {
		return tree.NewPoint(v...)
	}
	return tree.NewPoint(vector.Unit(v)...)
}

// Metric returns the tree distance in use.
func (i *Index) Metric() Metric { return i.metric }

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Items exposes the ids and raw vectors the tree was built from.
func (i *Index) Items() ([]string, [][]float32) { return i.ids, i.vecs }

// MarshalBinary uses the brute-force format for persistence.
func (i *Index) MarshalBinary() ([]byte, error) {
	return bruteforce.Encode(i.ids, i.vecs, i.dim), nil
}

// UnmarshalBinary loads the brute-force format and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := bruteforce.Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}
