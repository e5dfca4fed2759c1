package index

import (
	"fmt"

	"github.com/viant/wordvec/index/bruteforce"
	"github.com/viant/wordvec/index/cover"
)

// Index defines a generic vector index with basic lifecycle methods.
// It enables building from (id, embedding) pairs, kNN queries, and
// binary serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length; vectors must be non-nil.
	Build(ids []string, vectors [][]float32) error

	// Query runs a kNN search against the index with the provided query vector
	// and returns up to k matches as parallel slices of ids and scores, where
	// higher score means more similar (cosine similarity). k <= 0 means all.
	Query(query []float32, k int) (ids []string, scores []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}

// Kind names an index implementation.
type Kind string

const (
	KindBrute Kind = "brute"
	KindCover Kind = "cover"
)

// New returns an empty index of the given kind.
func New(kind Kind, coverOpts ...cover.Option) (Index, error) {
	switch kind {
	case KindBrute:
		return &bruteforce.Index{}, nil
	case KindCover:
		return cover.New(coverOpts...), nil
	default:
		return nil, fmt.Errorf("index: unsupported kind %q", kind)
	}
}
