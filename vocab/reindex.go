package vocab

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/wordvec/index"
)

// ReindexStats describes a rebuilt index.
type ReindexStats struct {
	Kind      Kind
	Words     int
	Dimension int
	Bytes     int
}

// Reindex rebuilds the neighbour index from the vocab table and persists it
// in vector_storage, replacing any previous one. The sql kind keeps no index,
// so reindexing to it only drops the persisted blob.
func Reindex(ctx context.Context, db *sql.DB, opts ...Option) (ReindexStats, error) {
	o := newOptions(opts)
	if err := EnsureSchema(ctx, db); err != nil {
		return ReindexStats{}, err
	}
	defer func() {
		if path, err := resolveDBPath(ctx, db); err == nil {
			invalidateCache(path)
		}
	}()
	words, vecs, err := readVocab(ctx, db)
	if err != nil {
		return ReindexStats{}, err
	}
	if len(words) == 0 {
		return ReindexStats{}, errors.New("vocab: vocabulary is empty")
	}
	stats := ReindexStats{Words: len(words), Dimension: len(vecs[0])}
	stats.Kind = resolveKind(o.kind, stats.Words, stats.Dimension)
	if stats.Kind == KindSQL {
		if _, err := db.ExecContext(ctx, `DELETE FROM vector_storage WHERE name = ?`, storageName); err != nil {
			return stats, fmt.Errorf("vocab: drop persisted index: %w", err)
		}
		return stats, nil
	}
	idx, err := buildIndex(stats.Kind, words, vecs, o)
	if err != nil {
		return stats, err
	}
	blob, err := index.Encode(idx)
	if err != nil {
		return stats, fmt.Errorf("vocab: encode %s index: %w", stats.Kind, err)
	}
	if err := savePersisted(ctx, db, string(stats.Kind), stats.Dimension, blob); err != nil {
		return stats, fmt.Errorf("vocab: persist %s index: %w", stats.Kind, err)
	}
	stats.Bytes = len(blob)
	return stats, nil
}
