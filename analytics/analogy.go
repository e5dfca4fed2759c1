package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/viant/wordvec/lemma"
	"github.com/viant/wordvec/vector"
)

const (
	// DefaultResults is the analogy result count when a query asks for none.
	DefaultResults = 10
	// DefaultMargin is the minimum number of extra neighbours fetched to
	// absorb candidates removed while cleaning results.
	DefaultMargin = 10
)

// AnalogyQuery asks for words completing A - B + C.
type AnalogyQuery struct {
	A, B, C string
	// N is the number of results; values below 1 use the solver default.
	N int
}

// Match is one analogy result.
type Match struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
}

// AnalogyResult holds distinct base forms ordered by descending similarity.
type AnalogyResult struct {
	Equation string  `json:"equation"`
	Results  []Match `json:"results"`
}

// Solver answers analogy queries.
type Solver struct {
	vectors    Vectors
	lemmatizer lemma.Lemmatizer
	results    int
	margin     int
}

// NewSolver creates a Solver. results <= 0 selects DefaultResults and the
// margin is never below DefaultMargin. A nil lemmatizer compares lower-cased
// words.
func NewSolver(vectors Vectors, lemmatizer lemma.Lemmatizer, results, margin int) *Solver {
	if results <= 0 {
		results = DefaultResults
	}
	return &Solver{
		vectors:    vectors,
		lemmatizer: lemmatizer,
		results:    results,
		margin:     max(margin, DefaultMargin),
	}
}

// Solve returns up to N words closest to vec(A) - vec(B) + vec(C). Results
// are reported by base form; candidates matching an input, by base form or
// lower-cased raw form, and repeated base forms are dropped. Fewer than N
// results is not an error.
func (s *Solver) Solve(ctx context.Context, q AnalogyQuery) (AnalogyResult, error) {
	inputs := []string{vector.Normalize(q.A), vector.Normalize(q.B), vector.Normalize(q.C)}
	n := q.N
	if n <= 0 {
		n = s.results
	}

	vecs := make([]vector.Vector, len(inputs))
	var missing []string
	for i, word := range inputs {
		v, ok, err := s.vectors.Vector(ctx, word)
		if err != nil {
			return AnalogyResult{}, fmt.Errorf("analytics: analogy: %w", err)
		}
		if !ok {
			missing = append(missing, word)
			continue
		}
		vecs[i] = v
	}
	if len(missing) > 0 {
		return AnalogyResult{}, &UnknownWordsError{Words: lo.Uniq(missing)}
	}

	diff, err := vector.Sub(vecs[0], vecs[1])
	if err != nil {
		return AnalogyResult{}, fmt.Errorf("analytics: analogy: %w", err)
	}
	target, err := vector.Add(diff, vecs[2])
	if err != nil {
		return AnalogyResult{}, fmt.Errorf("analytics: analogy: %w", err)
	}
	neighbors, err := s.vectors.NearestNeighbors(ctx, target, saturatingAdd(n, s.margin))
	if err != nil {
		return AnalogyResult{}, fmt.Errorf("analytics: analogy neighbours: %w", err)
	}

	result := AnalogyResult{
		Equation: fmt.Sprintf("%s - %s + %s", inputs[0], inputs[1], inputs[2]),
		Results:  make([]Match, 0, min(n, len(neighbors))),
	}
	excluded := lo.SliceToMap(inputs, func(w string) (string, struct{}) { return w, struct{}{} })
	accepted := make(map[string]struct{}, min(n, len(neighbors)))
	for _, candidate := range neighbors {
		raw := strings.ToLower(candidate.Word)
		base := lemma.Base(s.lemmatizer, candidate.Word)
		if _, ok := excluded[base]; ok {
			continue
		}
		if _, ok := excluded[raw]; ok {
			continue
		}
		if _, ok := accepted[base]; ok {
			continue
		}
		accepted[base] = struct{}{}
		result.Results = append(result.Results, Match{Word: base, Similarity: candidate.Score})
		if len(result.Results) >= n {
			break
		}
	}
	return result, nil
}

// saturatingAdd adds two non-negative counts, clamping at math.MaxInt.
func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
