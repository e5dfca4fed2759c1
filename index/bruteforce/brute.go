package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// minShard is the smallest number of vectors worth scanning on its own goroutine.
const minShard = 4096

// Index is a brute-force vector index implementing cosine similarity.
type Index struct {
	ids  []string
	vecs [][]float32
	dim  int
	mags []float64
}

type scored struct {
	idx   int
	score float64
}

// Build loads ids and vectors and precomputes magnitudes.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	mags := make([]float64, len(vectors))
	for j, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(v), dim)
		}
		mags[j] = magnitude(v)
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	i.mags = mags
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Query returns top-k by cosine similarity; ties are broken by id so results
// are deterministic.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	qm := magnitude(query)
	if qm == 0 {
		return nil, nil, nil
	}
	if k <= 0 || k > len(i.vecs) {
		k = len(i.vecs)
	}

	shards := runtime.GOMAXPROCS(0)
	if limit := (len(i.vecs) + minShard - 1) / minShard; shards > limit {
		shards = limit
	}
	size := (len(i.vecs) + shards - 1) / shards
	partial := make([][]scored, shards)
	var g errgroup.Group
	for s := 0; s < shards; s++ {
		lo, hi := s*size, min((s+1)*size, len(i.vecs))
		g.Go(func() error {
			partial[s] = i.topK(query, qm, lo, hi, k)
			return nil
		})
	}
	_ = g.Wait()

	var merged []scored
	for _, p := range partial {
		merged = append(merged, p...)
	}
	i.sortScored(merged)
	if k > len(merged) {
		k = len(merged)
	}
	outIDs := make([]string, k)
	outScores := make([]float64, k)
	for n := 0; n < k; n++ {
		outIDs[n] = i.ids[merged[n].idx]
		outScores[n] = merged[n].score
	}
	return outIDs, outScores, nil
}

// topK scores vectors in [lo, hi) and keeps the best k.
func (i *Index) topK(query []float32, qm float64, lo, hi, k int) []scored {
	out := make([]scored, 0, hi-lo)
	for j := lo; j < hi; j++ {
		if i.mags[j] == 0 {
			continue
		}
		s := dot(query, i.vecs[j]) / (qm * i.mags[j])
		if math.IsNaN(s) {
			continue
		}
		out = append(out, scored{idx: j, score: s})
	}
	i.sortScored(out)
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func (i *Index) sortScored(s []scored) {
	sort.Slice(s, func(a, b int) bool {
		if s[a].score != s[b].score {
			return s[a].score > s[b].score
		}
		return i.ids[s[a].idx] < i.ids[s[b].idx]
	})
}

// Items returns the indexed ids and vectors. The slices are shared.
func (i *Index) Items() ([]string, [][]float32) { return i.ids, i.vecs }

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// idLen(uint32), id bytes, vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	return Encode(i.ids, i.vecs, i.dim), nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}

// Encode writes ids and vectors in the brute-force binary format.
func Encode(ids []string, vecs [][]float32, dim int) []byte {
	if len(ids) == 0 {
		dim = 0
	}
	size := 8
	for _, id := range ids {
		size += 4 + len(id) + 4*dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	for n, id := range ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		for _, v := range vecs[n] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out
}

// Decode parses the brute-force binary format.
func Decode(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	off := 8
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idLen := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if off+idLen+4*dim > len(data) {
			return nil, nil, errors.New("bruteforce: truncated item")
		}
		ids[idx] = string(data[off : off+idLen])
		off += idLen
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[idx] = vec
	}
	return ids, vecs, nil
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 { return math.Sqrt(dot(v, v)) }
