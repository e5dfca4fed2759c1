package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/viant/wordvec/vector"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Coordinate is a word position on the first two principal axes.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projection maps every usable word to a coordinate. Words lists them in
// input order; Missing lists the inputs without a vector.
type Projection struct {
	Coordinates map[string]Coordinate `json:"coordinates"`
	Words       []string              `json:"-"`
	Missing     []string              `json:"missing"`
}

// Projector reduces word vectors to 2D with principal component analysis.
type Projector struct {
	vectors Vectors
}

// NewProjector creates a Projector.
func NewProjector(vectors Vectors) *Projector {
	return &Projector{vectors: vectors}
}

// Project normalises and deduplicates words, drops empty ones, and projects
// the words that have vectors onto min(2, n) principal axes. Y is 0 when a
// second axis does not exist. Fewer than two usable words yields an
// InsufficientWordsError carrying the missing words.
func (p *Projector) Project(ctx context.Context, words []string) (Projection, error) {
	normalized := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = vector.Normalize(w)
		return w, w != ""
	}))
	valid := make([]string, 0, len(normalized))
	missing := make([]string, 0)
	rows := make([][]float32, 0, len(normalized))
	for _, word := range normalized {
		v, ok, err := p.vectors.Vector(ctx, word)
		if err != nil {
			return Projection{}, fmt.Errorf("analytics: project: %w", err)
		}
		if !ok {
			missing = append(missing, word)
			continue
		}
		valid = append(valid, word)
		rows = append(rows, v)
	}
	if len(valid) < 2 {
		return Projection{Coordinates: map[string]Coordinate{}, Missing: missing}, &InsufficientWordsError{Missing: missing}
	}

	scores, err := principalScores(rows, 2)
	if err != nil {
		return Projection{Missing: missing}, err
	}
	_, k := scores.Dims()
	out := Projection{Coordinates: make(map[string]Coordinate, len(valid)), Words: valid, Missing: missing}
	for i, word := range valid {
		c := Coordinate{X: scores.At(i, 0)}
		if k > 1 {
			c.Y = scores.At(i, 1)
		}
		out.Coordinates[word] = c
	}
	return out, nil
}

// principalScores centres rows and projects them onto at most maxAxes
// principal directions. Each axis is oriented so that its largest absolute
// score is positive, which keeps signs stable across runs.
func principalScores(rows [][]float32, maxAxes int) (*mat.Dense, error) {
	n, d := len(rows), len(rows[0])
	data := mat.NewDense(n, d, nil)
	for i, row := range rows {
		if len(row) != d {
			return nil, errors.New("analytics: projection rows differ in dimension")
		}
		for j, x := range row {
			data.Set(i, j, float64(x))
		}
	}

	var pc stat.PC
	if !pc.PrincipalComponents(data, nil) {
		return nil, errors.New("analytics: principal component decomposition failed")
	}
	var axes mat.Dense
	pc.VectorsTo(&axes)
	_, available := axes.Dims()
	k := min(maxAxes, n, available)

	centered := mat.DenseCopyOf(data)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, data)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, col[i]-mean)
		}
	}

	var scores mat.Dense
	scores.Mul(centered, axes.Slice(0, d, 0, k))
	for j := 0; j < k; j++ {
		pivot := 0.0
		for i := 0; i < n; i++ {
			if v := scores.At(i, j); math.Abs(v) > math.Abs(pivot) {
				pivot = v
			}
		}
		if pivot < 0 {
			for i := 0; i < n; i++ {
				scores.Set(i, j, -scores.At(i, j))
			}
		}
	}
	return &scores, nil
}
