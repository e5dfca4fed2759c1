package analytics

import (
	"context"

	"github.com/viant/wordvec/vector"
)

// Vectors is the read side of the vector store. Words are normalised by the
// implementation. An error means the store itself is unusable; a word
// without a vector is reported with ok false.
type Vectors interface {
	HasVector(ctx context.Context, word string) (bool, error)
	Vector(ctx context.Context, word string) (vector.Vector, bool, error)
	NearestNeighbors(ctx context.Context, query vector.Vector, k int) ([]vector.Neighbor, error)
}
