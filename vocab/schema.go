package vocab

import (
	"context"
	"database/sql"
	"fmt"
)

// storageName keys the vocabulary index row in vector_storage.
const storageName = "vocab"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS vocab (
    word      TEXT PRIMARY KEY,
    embedding BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS vector_storage (
    name    TEXT PRIMARY KEY,
    kind    TEXT NOT NULL,
    dim     INTEGER NOT NULL,
    "index" BLOB
);
CREATE TRIGGER IF NOT EXISTS vocab_ai AFTER INSERT ON vocab BEGIN
    DELETE FROM vector_storage WHERE name = 'vocab';
END;
CREATE TRIGGER IF NOT EXISTS vocab_au AFTER UPDATE ON vocab BEGIN
    DELETE FROM vector_storage WHERE name = 'vocab';
END;
CREATE TRIGGER IF NOT EXISTS vocab_ad AFTER DELETE ON vocab BEGIN
    DELETE FROM vector_storage WHERE name = 'vocab';
END;
`

// EnsureSchema creates the vocab and vector_storage tables and the triggers
// that invalidate the persisted index.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("vocab: db is nil")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("vocab: ensure schema: %w", err)
	}
	return nil
}

// resolveDBPath returns the file backing the main database, or "" for an
// in-memory database.
func resolveDBPath(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, file FROM pragma_database_list`)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	for rows.Next() {
		var name, file string
		if err := rows.Scan(&name, &file); err != nil {
			return "", err
		}
		if name == "main" {
			return file, nil
		}
	}
	return "", rows.Err()
}

func loadPersisted(ctx context.Context, db *sql.DB) (kind string, dim int, blob []byte, err error) {
	err = db.QueryRowContext(ctx, `SELECT kind, dim, "index" FROM vector_storage WHERE name = ?`, storageName).Scan(&kind, &dim, &blob)
	if err == sql.ErrNoRows {
		return "", 0, nil, nil
	}
	return kind, dim, blob, err
}

func savePersisted(ctx context.Context, db *sql.DB, kind string, dim int, blob []byte) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(name, kind, dim, "index") VALUES(?, ?, ?, ?)`, storageName, kind, dim, blob)
	return err
}
