package vector

import (
	"context"
	"strings"
)

// Vector is a dense embedding. Vectors handed out by a Model must be treated
// as read-only; arithmetic helpers in this package always allocate.
type Vector []float32

// Neighbor is a single nearest-neighbour hit.
type Neighbor struct {
	Word  string
	Score float64 // cosine similarity, higher is closer
}

// Model is a loaded, read-only embedding space. Implementations must be safe
// for concurrent use once constructed.
type Model interface {
	// Dimension returns the fixed dimensionality of every vector in the model.
	Dimension() int

	// Len returns the vocabulary size.
	Len() int

	// HasVector reports whether word is in the vocabulary with a vector.
	// The word is matched as given; callers normalise first.
	HasVector(word string) bool

	// Vector returns the embedding for word, or false when absent.
	Vector(word string) (Vector, bool)

	// NearestNeighbors returns up to k vocabulary words closest to query,
	// ordered by descending cosine similarity. The query does not have to
	// belong to the vocabulary.
	NearestNeighbors(ctx context.Context, query Vector, k int) ([]Neighbor, error)
}

// Normalize returns the lookup key for a word: surrounding whitespace
// stripped and lower-cased.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
