package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// IndexFileName is the index database inside the cache directory.
const IndexFileName = "index.db"

// Entry describes a stored cache entry.
type Entry struct {
	Hash     string    `json:"hash" yaml:"hash"`
	Project  string    `json:"project" yaml:"project"`
	Target   string    `json:"target" yaml:"target"`
	Profile  string    `json:"profile" yaml:"profile"`
	Size     int64     `json:"size" yaml:"size"`
	StoredAt time.Time `json:"storedAt" yaml:"storedAt"`
}

// Index records which target produced each stored entry.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the SQLite index at path and migrates it.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) migrate() error {
	if _, err := i.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate index: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS entries (
  hash       TEXT PRIMARY KEY,
  project    TEXT NOT NULL,
  target     TEXT NOT NULL,
  profile    TEXT NOT NULL,
  size       INTEGER NOT NULL DEFAULT 0,
  stored_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_target ON entries(project, target);
`

// Record inserts or replaces the entry for e.Hash.
func (i *Index) Record(ctx context.Context, e Entry) error {
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now()
	}
	_, err := i.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (hash, project, target, profile, size, stored_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Hash, e.Project, e.Target, e.Profile, e.Size, e.StoredAt.UTC())
	if err != nil {
		return fmt.Errorf("record entry %s: %w", e.Hash, err)
	}
	return nil
}

// Lookup returns the entry for hash.
func (i *Index) Lookup(ctx context.Context, hash string) (Entry, bool, error) {
	row := i.db.QueryRowContext(ctx,
		`SELECT hash, project, target, profile, size, stored_at FROM entries WHERE hash = ?`, hash)

	var e Entry
	err := row.Scan(&e.Hash, &e.Project, &e.Target, &e.Profile, &e.Size, &e.StoredAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup entry %s: %w", hash, err)
	}
	return e, true, nil
}

// Entries returns every entry, oldest first.
func (i *Index) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT hash, project, target, profile, size, stored_at FROM entries ORDER BY stored_at, hash`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Hash, &e.Project, &e.Target, &e.Profile, &e.Size, &e.StoredAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
