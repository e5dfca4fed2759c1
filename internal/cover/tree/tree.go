package tree

// This implementation is adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sort"
	"sync"

	"github.com/viant/vec/search"
)

// BoundStrategy selects which lower-bound radius to use when pruning.
type BoundStrategy int

const (
	// BoundPerNode uses the cached per-node subtree radius (tighter pruning).
	BoundPerNode BoundStrategy = iota
	// BoundLevel uses a geometric bound derived from the node level.
	BoundLevel
)

// Tree is a cover tree for kNN queries over points carrying values of type T.
type Tree[T any] struct {
	mu            sync.Mutex
	root          *Node
	base          float32
	distance      DistanceFunc
	values        values[T]
	size          int
	version       uint64
	boundStrategy BoundStrategy
}

// NewTree constructs a cover tree with the provided base and distance metric.
// A base <= 1 falls back to 1.3; an unknown metric falls back to cosine.
func NewTree[T any](base float32, distance DistanceFunction) *Tree[T] {
	if base <= 1 {
		base = 1.3
	}
	fn := distance.Function()
	if fn == nil {
		fn = CosineDistance
	}
	return &Tree[T]{base: base, distance: fn}
}

// SetBoundStrategy switches the pruning strategy.
func (t *Tree[T]) SetBoundStrategy(s BoundStrategy) {
	t.mu.Lock()
	t.boundStrategy = s
	t.mu.Unlock()
}

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Insert adds a value/point pair to the tree and returns the point index.
func (t *Tree[T]) Insert(value T, point *Point) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = t.values.put(value)
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	if t.root == nil {
		node := NewNode(point, 0, t.base)
		t.root = &node
	} else {
		t.insert(t.root, point, 0)
	}
	t.size++
	t.version++
	return point.index
}

// Value returns the stored value for the given point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	if !point.HasValue() {
		return zero
	}
	return t.values.value(point.index)
}

func (t *Tree[T]) insert(node *Node, point *Point, level int32) {
	for {
		baseLevel := float32(math.Pow(float64(t.base), float64(level)))
		if t.distance(point, node.point) < baseLevel {
			descended := false
			for i := range node.children {
				child := &node.children[i]
				if t.distance(point, child.point) < baseLevel {
					node = child
					level--
					descended = true
					break
				}
			}
			if !descended {
				node.children = append(node.children, NewNode(point, level-1, t.base))
				return
			}
			continue
		}
		level++
		if level > node.level {
			newRoot := NewNode(point, level, t.base)
			newRoot.children = append(newRoot.children, *t.root)
			t.root = &newRoot
			return
		}
	}
}

// KNearestNeighbors runs a depth-first kNN search and returns up to k
// neighbours ordered by ascending distance. The radius cache is refreshed
// lazily, so searches serialise on the tree lock.
func (t *Tree[T]) KNearestNeighbors(point *Point, k int) []*Neighbor {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	h := &neighbors{}
	t.search(t.root, point, k, h)
	result := make([]*Neighbor, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		n := heap.Pop(h).(Neighbor)
		result[i] = &n
	}
	return result
}

func (t *Tree[T]) search(node *Node, point *Point, k int, h *neighbors) {
	dc := t.distance(point, node.point)
	if h.Len() < k {
		heap.Push(h, Neighbor{Point: node.point, Distance: dc})
	} else if dc < (*h)[0].Distance {
		heap.Pop(h)
		heap.Push(h, Neighbor{Point: node.point, Distance: dc})
	}
	if len(node.children) == 0 {
		return
	}
	type childDist struct {
		child *Node
		dist  float32
	}
	order := make([]childDist, len(node.children))
	for i := range node.children {
		child := &node.children[i]
		order[i] = childDist{child: child, dist: t.distance(point, child.point)}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].dist < order[j].dist })
	for _, cd := range order {
		if worst, full := h.worst(k); full && cd.dist-t.boundRadius(cd.child) >= worst {
			continue
		}
		t.search(cd.child, point, k, h)
	}
}

func (t *Tree[T]) ensureRadius(n *Node) float32 {
	if n.radiusComputed == t.version {
		return n.radius
	}
	var maxR float32
	for i := range n.children {
		child := &n.children[i]
		if d := t.distance(n.point, child.point) + t.ensureRadius(child); d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	n.radiusComputed = t.version
	return maxR
}

func (t *Tree[T]) boundRadius(n *Node) float32 {
	if t.boundStrategy == BoundLevel {
		return n.baseLevel * t.base / (t.base - 1)
	}
	return t.ensureRadius(n)
}
