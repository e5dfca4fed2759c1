package tree

// Neighbor describes a candidate returned by a kNN search.
type Neighbor struct {
	Point    *Point
	Distance float32
}

// neighbors implements heap.Interface as a max-heap on distance, so the
// current worst candidate sits at the top.
type neighbors []Neighbor

func (h neighbors) Len() int           { return len(h) }
func (h neighbors) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h neighbors) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighbors) Push(x any) { *h = append(*h, x.(Neighbor)) }

func (h *neighbors) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// worst returns the largest distance held, or +Inf semantics via ok=false
// while the heap is not yet full.
func (h neighbors) worst(k int) (float32, bool) {
	if k <= 0 || len(h) < k {
		return 0, false
	}
	return h[0].Distance, true
}
