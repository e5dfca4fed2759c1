package vocab

import (
	"fmt"
	"strings"

	"github.com/viant/wordvec/index"
	"github.com/viant/wordvec/index/cover"
)

// Kind selects how nearest neighbours are searched.
type Kind string

const (
	// KindAuto picks cover for large, dense vocabularies and brute otherwise.
	KindAuto  Kind = "auto"
	KindBrute Kind = Kind(index.KindBrute)
	KindCover Kind = Kind(index.KindCover)
	// KindSQL scores every row inside SQLite with vec_cosine.
	KindSQL Kind = "sql"
)

const (
	autoCoverMinWords           = 4000
	autoCoverMinDim             = 64
	autoCoverMinDensity float64 = 16
)

// ParseKind validates an index kind name; empty means auto.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindBrute, KindCover, KindSQL:
		return k, nil
	default:
		return "", fmt.Errorf("vocab: unsupported index kind %q", s)
	}
}

// resolveKind maps auto to a concrete kind from the vocabulary shape.
func resolveKind(kind Kind, words, dim int) Kind {
	if kind != KindAuto && kind != "" {
		return kind
	}
	if words >= autoCoverMinWords && dim >= autoCoverMinDim {
		density := float64(words) / float64(dim)
		if density >= autoCoverMinDensity {
			return KindCover
		}
	}
	return KindBrute
}

type options struct {
	kind        Kind
	coverBase   float32
	coverMetric cover.Metric
}

// Option configures Open, NewMemory and Reindex.
type Option func(*options)

// WithIndex sets the neighbour search kind (default auto).
func WithIndex(kind Kind) Option {
	return func(o *options) {
		if kind != "" {
			o.kind = kind
		}
	}
}

// WithCoverBase sets the cover tree base; values <= 1 keep the default.
func WithCoverBase(base float32) Option {
	return func(o *options) { o.coverBase = base }
}

// WithCoverMetric sets the cover tree distance; empty keeps euclidean.
func WithCoverMetric(metric cover.Metric) Option {
	return func(o *options) { o.coverMetric = metric }
}

func newOptions(opts []Option) options {
	o := options{kind: KindAuto}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) coverOptions() []cover.Option {
	var opts []cover.Option
	if o.coverBase > 1 {
		opts = append(opts, cover.WithBase(o.coverBase))
	}
	if o.coverMetric != "" {
		opts = append(opts, cover.WithMetric(o.coverMetric))
	}
	return opts
}
