package vocab

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/viant/wordvec/vector"
)

// Format names an embedding file layout.
type Format string

const (
	// FormatAuto detects GloVe or word2vec text from the first line.
	FormatAuto Format = "auto"
	// FormatGloVe is "word v1 v2 ... vn" per line without a header.
	FormatGloVe Format = "glove"
	// FormatWord2Vec is the word2vec text layout with a "count dim" header.
	FormatWord2Vec Format = "word2vec"
	// FormatWord2VecBinary is the word2vec binary layout.
	FormatWord2VecBinary Format = "word2vec-bin"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 10000

// ParseFormat validates a format name; empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatGloVe, FormatWord2Vec, FormatWord2VecBinary:
		return f, nil
	default:
		return "", fmt.Errorf("vocab: unsupported format %q", s)
	}
}

// ImportOptions controls Import.
type ImportOptions struct {
	Format Format
	// Lowercase folds words to lower case; the first occurrence of a folded
	// word wins.
	Lowercase bool
	// Limit stops after this many entries have been read; 0 means no limit.
	Limit int
	// BatchSize is the number of rows per transaction.
	BatchSize int
}

// ImportStats summarises an import.
type ImportStats struct {
	Read      int
	Inserted  int
	Skipped   int
	Dimension int
}

// entryReader yields one word and vector per call and io.EOF at the end.
type entryReader interface {
	next() (string, []float32, error)
}

// Import reads embeddings from r into the vocab table. Words already present
// are kept. Entries with an empty word, a zero vector or non-finite
// components are skipped. Every vector must match the dimension of the first
// one and of any vocabulary already stored.
func Import(ctx context.Context, db *sql.DB, r io.Reader, opts ImportOptions) (ImportStats, error) {
	var stats ImportStats
	if err := EnsureSchema(ctx, db); err != nil {
		return stats, err
	}
	dim, err := storedDimension(ctx, db)
	if err != nil {
		return stats, err
	}
	src, err := newEntryReader(bufio.NewReaderSize(r, 1<<20), opts.Format)
	if err != nil {
		return stats, err
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	w := &batchWriter{db: db}
	defer w.rollback()
	for opts.Limit <= 0 || stats.Read < opts.Limit {
		word, vec, err := src.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Read++
		if opts.Lowercase {
			word = strings.ToLower(word)
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return stats, fmt.Errorf("vocab: entry %d (%q): dimension %d, want %d", stats.Read, word, len(vec), dim)
		}
		blob, err := vector.EncodeEmbedding(vec)
		if word == "" || err != nil || vector.Norm(vec) == 0 {
			stats.Skipped++
			continue
		}
		inserted, err := w.insert(ctx, word, blob)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
		if w.pending >= batchSize {
			if err := w.commit(); err != nil {
				return stats, err
			}
		}
	}
	if err := w.commit(); err != nil {
		return stats, err
	}
	stats.Dimension = dim
	if path, err := resolveDBPath(ctx, db); err == nil {
		invalidateCache(path)
	}
	return stats, nil
}

func storedDimension(ctx context.Context, db *sql.DB) (int, error) {
	var blob []byte
	err := db.QueryRowContext(ctx, `SELECT embedding FROM vocab LIMIT 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("vocab: stored dimension: %w", err)
	}
	return len(blob) / 4, nil
}

type batchWriter struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	pending int
}

func (w *batchWriter) insert(ctx context.Context, word string, blob []byte) (bool, error) {
	if w.tx == nil {
		tx, err := w.db.BeginTx(ctx, nil)
		if err != nil {
			return false, err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO vocab(word, embedding) VALUES(?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return false, err
		}
		w.tx, w.stmt = tx, stmt
	}
	res, err := w.stmt.ExecContext(ctx, word, blob)
	if err != nil {
		return false, fmt.Errorf("vocab: insert %q: %w", word, err)
	}
	w.pending++
	n, err := res.RowsAffected()
	return n > 0, err
}

func (w *batchWriter) commit() error {
	if w.tx == nil {
		return nil
	}
	_ = w.stmt.Close()
	err := w.tx.Commit()
	w.tx, w.stmt, w.pending = nil, nil, 0
	if err != nil {
		return fmt.Errorf("vocab: commit batch: %w", err)
	}
	return nil
}

func (w *batchWriter) rollback() {
	if w.tx == nil {
		return
	}
	_ = w.stmt.Close()
	_ = w.tx.Rollback()
	w.tx, w.stmt, w.pending = nil, nil, 0
}

func newEntryReader(r *bufio.Reader, format Format) (entryReader, error) {
	if format == "" || format == FormatAuto {
		line, err := r.Peek(256)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, err
		}
		first := string(line)
		if i := strings.IndexByte(first, '\n'); i >= 0 {
			first = first[:i]
		}
		format = FormatGloVe
		if _, _, ok := parseHeader(first); ok {
			format = FormatWord2Vec
		}
	}
	switch format {
	case FormatGloVe:
		return &textReader{r: r, remaining: -1}, nil
	case FormatWord2Vec:
		count, dim, err := readHeader(r)
		if err != nil {
			return nil, err
		}
		return &textReader{r: r, dim: dim, remaining: count}, nil
	case FormatWord2VecBinary:
		count, dim, err := readHeader(r)
		if err != nil {
			return nil, err
		}
		return &binaryReader{r: r, dim: dim, remaining: count, buf: make([]byte, 4*dim)}, nil
	default:
		return nil, fmt.Errorf("vocab: unsupported format %q", format)
	}
}

func parseHeader(line string) (count, dim int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, false
	}
	count, err1 := strconv.Atoi(fields[0])
	dim, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || count < 0 || dim <= 0 {
		return 0, 0, false
	}
	return count, dim, true
}

func readHeader(r *bufio.Reader) (count, dim int, err error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, 0, err
	}
	count, dim, ok := parseHeader(line)
	if !ok {
		return 0, 0, fmt.Errorf("vocab: invalid word2vec header %q", strings.TrimSpace(line))
	}
	return count, dim, nil
}

// textReader parses whitespace separated lines. When dim is unknown the
// first line fixes it; words may contain spaces since the vector is taken
// from the last dim fields.
type textReader struct {
	r         *bufio.Reader
	dim       int
	remaining int // negative means unbounded
	line      int
}

func (t *textReader) next() (string, []float32, error) {
	for {
		if t.remaining == 0 {
			return "", nil, io.EOF
		}
		raw, err := t.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", nil, err
		}
		if raw == "" && errors.Is(err, io.EOF) {
			return "", nil, io.EOF
		}
		t.line++
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		if t.remaining > 0 {
			t.remaining--
		}
		dim := t.dim
		if dim == 0 {
			dim = len(fields) - 1
			t.dim = dim
		}
		if dim <= 0 || len(fields) < dim+1 {
			return "", nil, fmt.Errorf("vocab: line %d: expected a word and %d values", t.line, dim)
		}
		split := len(fields) - dim
		vec := make([]float32, dim)
		for i, f := range fields[split:] {
			v, perr := strconv.ParseFloat(f, 32)
			if perr != nil {
				return "", nil, fmt.Errorf("vocab: line %d: %w", t.line, perr)
			}
			vec[i] = float32(v)
		}
		return strings.TrimSpace(strings.Join(fields[:split], " ")), vec, nil
	}
}

// binaryReader parses word2vec binary entries: the word terminated by a
// space, then dim little-endian float32 values.
type binaryReader struct {
	r         *bufio.Reader
	dim       int
	remaining int
	buf       []byte
}

func (b *binaryReader) next() (string, []float32, error) {
	if b.remaining <= 0 {
		return "", nil, io.EOF
	}
	word, err := b.r.ReadString(' ')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(word) == "" {
			return "", nil, io.EOF
		}
		return "", nil, fmt.Errorf("vocab: read word2vec word: %w", err)
	}
	if _, err := io.ReadFull(b.r, b.buf); err != nil {
		return "", nil, fmt.Errorf("vocab: read vector for %q: %w", strings.TrimSpace(word), err)
	}
	b.remaining--
	vec := make([]float32, b.dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.buf[4*i:]))
	}
	return strings.TrimSpace(word), vec, nil
}
