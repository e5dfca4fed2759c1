// Package store is the process-wide accessor for the loaded vector model.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/viant/wordvec/logging"
	"github.com/viant/wordvec/vector"
)

// Loader produces the vector model. It is called at most once per Store.
type Loader func(ctx context.Context) (vector.Model, error)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report the model load.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store loads the model once, on first use or through Load, and serves
// normalised lookups from it. A failed load is permanent.
type Store struct {
	loader Loader
	logger *logging.Logger

	once  sync.Once
	model vector.Model
	err   error
}

// New creates a Store around loader.
func New(loader Loader, opts ...Option) *Store {
	s := &Store{loader: loader, logger: logging.Noop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromModel wraps an already loaded model.
func FromModel(model vector.Model, opts ...Option) *Store {
	return New(func(context.Context) (vector.Model, error) { return model, nil }, opts...)
}

// Load performs the one-time model load and returns its error, if any.
// Concurrent callers wait for the same load.
func (s *Store) Load(ctx context.Context) error {
	_, err := s.get(ctx)
	return err
}

func (s *Store) get(ctx context.Context) (vector.Model, error) {
	s.once.Do(func() {
		started := time.Now()
		if s.loader == nil {
			s.err = errors.New("store: loader is nil")
		} else if s.model, s.err = s.loader(ctx); s.err == nil && s.model == nil {
			s.err = errors.New("store: loader returned nil model")
		}
		if s.err != nil {
			s.err = fmt.Errorf("store: load model: %w", s.err)
			s.logger.LogLoad(ctx, 0, 0, time.Since(started), s.err)
			return
		}
		s.logger.LogLoad(ctx, s.model.Len(), s.model.Dimension(), time.Since(started), nil)
	})
	return s.model, s.err
}

// HasVector reports whether the normalised word has a vector. A failed
// model load is returned as the error, never as a missing word.
func (s *Store) HasVector(ctx context.Context, word string) (bool, error) {
	m, err := s.get(ctx)
	if err != nil {
		return false, err
	}
	return m.HasVector(vector.Normalize(word)), nil
}

// Vector returns the vector of the normalised word. The result is shared
// and must not be modified.
func (s *Store) Vector(ctx context.Context, word string) (vector.Vector, bool, error) {
	m, err := s.get(ctx)
	if err != nil {
		return nil, false, err
	}
	v, ok := m.Vector(vector.Normalize(word))
	return v, ok, nil
}

// NearestNeighbors returns up to k words ordered by descending similarity
// to query.
func (s *Store) NearestNeighbors(ctx context.Context, query vector.Vector, k int) ([]vector.Neighbor, error) {
	m, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return m.NearestNeighbors(ctx, query, k)
}

// Dimension returns the model dimensionality, or 0 when the load failed.
func (s *Store) Dimension(ctx context.Context) int {
	m, err := s.get(ctx)
	if err != nil {
		return 0
	}
	return m.Dimension()
}

// Len returns the vocabulary size, or 0 when the load failed.
func (s *Store) Len(ctx context.Context) int {
	m, err := s.get(ctx)
	if err != nil {
		return 0
	}
	return m.Len()
}

// Close releases the model if it was loaded and holds resources.
func (s *Store) Close() error {
	s.once.Do(func() { s.err = errors.New("store: closed before load") })
	if closer, ok := s.model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
