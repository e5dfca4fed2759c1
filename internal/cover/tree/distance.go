package tree

import (
	"math"

	"github.com/viant/vec/search"
)

// DistanceFunction enumerates supported distance metrics for the cover tree.
type DistanceFunction string

const (
	DistanceFunctionCosine    DistanceFunction = "cosine"
	DistanceFunctionEuclidean DistanceFunction = "euclidean"
)

// DistanceFunc computes the distance between two points.
type DistanceFunc func(p1, p2 *Point) float32

// Function resolves the callable distance implementation.
func (d DistanceFunction) Function() DistanceFunc {
	switch d {
	case DistanceFunctionCosine:
		return CosineDistance
	case DistanceFunctionEuclidean:
		return EuclideanDistance
	default:
		return nil
	}
}

// CosineDistance returns 1 - cosine similarity. It is not a metric, so
// pruning with it is approximate.
func CosineDistance(p1, p2 *Point) float32 {
	v1 := search.Float32s(p1.Vector)
	m1 := p1.Magnitude
	if m1 == 0 {
		m1 = v1.Magnitude()
	}
	m2 := p2.Magnitude
	if m2 == 0 {
		m2 = search.Float32s(p2.Vector).Magnitude()
	}
	return v1.CosineDistanceWithMagnitude(p2.Vector, m1, m2)
}

// EuclideanDistance returns the Euclidean distance between two points. It
// is accumulated in float64 so the triangle inequality used for pruning
// holds for nearly identical unit vectors.
func EuclideanDistance(p1, p2 *Point) float32 {
	var sum float64
	for i, v := range p1.Vector {
		d := float64(v) - float64(p2.Vector[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
