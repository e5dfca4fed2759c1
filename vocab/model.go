package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/wordvec/engine"
	"github.com/viant/wordvec/index"
	"github.com/viant/wordvec/vector"
)

// snapshot is an immutable loaded vocabulary.
type snapshot struct {
	kind   Kind
	dim    int
	words  []string
	vecs   [][]float32
	byWord map[string]int
	idx    index.Index // nil for KindSQL
}

func newSnapshot(kind Kind, words []string, vecs [][]float32, idx index.Index) (*snapshot, error) {
	if len(words) != len(vecs) {
		return nil, errors.New("vocab: words/vectors length mismatch")
	}
	s := &snapshot{kind: kind, words: words, vecs: vecs, idx: idx, byWord: make(map[string]int, len(words))}
	for i, w := range words {
		if s.dim == 0 {
			s.dim = len(vecs[i])
		} else if len(vecs[i]) != s.dim {
			return nil, fmt.Errorf("vocab: word %q has dimension %d, want %d", w, len(vecs[i]), s.dim)
		}
		if _, ok := s.byWord[w]; !ok {
			s.byWord[w] = i
		}
	}
	return s, nil
}

// Model is a read-only vocabulary implementing vector.Model.
type Model struct {
	*snapshot
	db *sql.DB
}

var _ vector.Model = (*Model)(nil)

// Open opens the SQLite database at path, loads the vocabulary and its
// nearest neighbour index. A persisted index is reused when its kind matches;
// otherwise one is built and persisted. Concurrent Opens of the same file
// share a single load.
func Open(ctx context.Context, path string, opts ...Option) (*Model, error) {
	o := newOptions(opts)
	if o.kind == KindSQL {
		engine.RegisterVectorFunctions()
	}
	db, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	m, err := openDB(ctx, db, o)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func openDB(ctx context.Context, db *sql.DB, o options) (*Model, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("vocab: resolve db path: %w", err)
	}
	build := func() (*snapshot, error) { return loadSnapshot(ctx, db, o) }
	var snap *snapshot
	if dbPath == "" {
		snap, err = build()
	} else {
		snap, err = loadShared(cacheKey(dbPath, o), build)
	}
	if err != nil {
		return nil, err
	}
	if snap.dim == 0 {
		return nil, errors.New("vocab: vocabulary is empty")
	}
	return &Model{snapshot: snap, db: db}, nil
}

// NewMemory builds a Model from in-memory words and vectors without a
// database. The sql kind is not available; first occurrence of a word wins.
func NewMemory(words []string, vectors [][]float32, opts ...Option) (*Model, error) {
	o := newOptions(opts)
	if o.kind == KindSQL {
		return nil, errors.New("vocab: sql index requires a database")
	}
	if len(words) == 0 {
		return nil, errors.New("vocab: vocabulary is empty")
	}
	snap, err := newSnapshot("", words, vectors, nil)
	if err != nil {
		return nil, err
	}
	snap.kind = resolveKind(o.kind, len(words), snap.dim)
	if snap.idx, err = buildIndex(snap.kind, words, vectors, o); err != nil {
		return nil, err
	}
	return &Model{snapshot: snap}, nil
}

// Dimension returns the embedding dimensionality.
func (m *Model) Dimension() int { return m.dim }

// Len returns the vocabulary size.
func (m *Model) Len() int { return len(m.words) }

// Kind returns the resolved neighbour search kind.
func (m *Model) Kind() Kind { return m.kind }

// HasVector reports whether word is in the vocabulary.
func (m *Model) HasVector(word string) bool {
	_, ok := m.byWord[word]
	return ok
}

// Vector returns the stored embedding for word; callers must not modify it.
func (m *Model) Vector(word string) (vector.Vector, bool) {
	i, ok := m.byWord[word]
	if !ok {
		return nil, false
	}
	return m.vecs[i], true
}

// NearestNeighbors returns up to k words ordered by descending cosine
// similarity to query, ties broken by word. k is capped at the vocabulary
// size.
func (m *Model) NearestNeighbors(ctx context.Context, query vector.Vector, k int) ([]vector.Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	k = min(k, len(m.words))
	if len(query) != m.dim {
		return nil, fmt.Errorf("vocab: query dimension %d, want %d", len(query), m.dim)
	}
	if m.idx == nil {
		return m.sqlNeighbors(ctx, query, k)
	}
	ids, scores, err := m.idx.Query(query, k)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s query: %w", m.kind, err)
	}
	out := make([]vector.Neighbor, len(ids))
	for i := range ids {
		out[i] = vector.Neighbor{Word: ids[i], Score: scores[i]}
	}
	return out, nil
}

func (m *Model) sqlNeighbors(ctx context.Context, query vector.Vector, k int) ([]vector.Neighbor, error) {
	if m.db == nil {
		return nil, errors.New("vocab: sql search without database")
	}
	blob, err := vector.EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx, `
SELECT word, score FROM (
    SELECT word, vec_cosine(embedding, ?) AS score FROM vocab
) WHERE score IS NOT NULL
ORDER BY score DESC, word
LIMIT ?`, blob, k)
	if err != nil {
		return nil, fmt.Errorf("vocab: sql search: %w", err)
	}
	defer rows.Close()
	out := make([]vector.Neighbor, 0, k)
	for rows.Next() {
		var n vector.Neighbor
		if err := rows.Scan(&n.Word, &n.Score); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Close releases the underlying database, if any.
func (m *Model) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// loadSnapshot reads the vocabulary, preferring a persisted index whose
// items already carry every word and vector.
func loadSnapshot(ctx context.Context, db *sql.DB, o options) (*snapshot, error) {
	if o.kind != KindSQL {
		if snap, ok := loadPersistedSnapshot(ctx, db, o); ok {
			return snap, nil
		}
	}
	words, vecs, err := readVocab(ctx, db)
	if err != nil {
		return nil, err
	}
	snap, err := newSnapshot("", words, vecs, nil)
	if err != nil {
		return nil, err
	}
	snap.kind = resolveKind(o.kind, len(words), snap.dim)
	if snap.kind == KindSQL || len(words) == 0 {
		return snap, nil
	}
	if snap.idx, err = buildIndex(snap.kind, words, vecs, o); err != nil {
		return nil, err
	}
	if blob, err := index.Encode(snap.idx); err == nil {
		_ = savePersisted(ctx, db, string(snap.kind), snap.dim, blob)
	}
	return snap, nil
}

type itemSource interface {
	Items() ([]string, [][]float32)
}

func loadPersistedSnapshot(ctx context.Context, db *sql.DB, o options) (*snapshot, bool) {
	kind, _, blob, err := loadPersisted(ctx, db)
	if err != nil || len(blob) == 0 {
		return nil, false
	}
	if o.kind != KindAuto && Kind(kind) != o.kind {
		return nil, false
	}
	idx, err := index.Decode(index.Kind(kind), blob, o.coverOptions()...)
	if err != nil {
		return nil, false
	}
	src, ok := idx.(itemSource)
	if !ok {
		return nil, false
	}
	words, vecs := src.Items()
	snap, err := newSnapshot(Kind(kind), words, vecs, idx)
	if err != nil || len(words) == 0 {
		return nil, false
	}
	return snap, true
}

func buildIndex(kind Kind, words []string, vecs [][]float32, o options) (index.Index, error) {
	idx, err := index.New(index.Kind(kind), o.coverOptions()...)
	if err != nil {
		return nil, err
	}
	if err := idx.Build(words, vecs); err != nil {
		return nil, fmt.Errorf("vocab: build %s index: %w", kind, err)
	}
	return idx, nil
}

func readVocab(ctx context.Context, db *sql.DB) ([]string, [][]float32, error) {
	rows, err := db.QueryContext(ctx, `SELECT word, embedding FROM vocab ORDER BY rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("vocab: read vocabulary: %w", err)
	}
	defer rows.Close()
	var words []string
	var vecs [][]float32
	for rows.Next() {
		var word string
		var emb []byte
		if err := rows.Scan(&word, &emb); err != nil {
			return nil, nil, err
		}
		v, err := vector.DecodeEmbedding(emb)
		if err != nil {
			return nil, nil, fmt.Errorf("vocab: decode %q: %w", word, err)
		}
		words = append(words, word)
		vecs = append(vecs, v)
	}
	return words, vecs, rows.Err()
}
