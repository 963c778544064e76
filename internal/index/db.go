// Package index maintains the SQLite query index for the content library:
// one scalar row per item plus an FTS5 row for full-text matching. The
// index is derived data; it is never authoritative and can always be
// rebuilt from the markdown files.
package index

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Options bound pagination for searches.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DB wraps the SQLite index database.
type DB struct {
	db   *sql.DB
	log  *zap.Logger
	opts Options
}

// Open opens or creates the index database and ensures the schema exists.
func Open(path string, opts Options, log *zap.Logger) (*DB, error) {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 50
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 200
	}
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrency between readers and the writer.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	idx := &DB{db: db, log: log, opts: opts}
	if err := idx.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return idx, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the scalar table, its secondary indexes and the FTS5
// virtual table if they don't exist.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		file_path TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		content_type TEXT NOT NULL,
		status TEXT,
		created_date TEXT,
		updated_date TEXT,
		publish_date TEXT,
		author TEXT,
		client TEXT,
		url TEXT,
		description TEXT,
		categories_json TEXT,
		tags_json TEXT,
		custom_fields_json TEXT,
		last_indexed TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_content_type ON content_items(content_type);
	CREATE INDEX IF NOT EXISTS idx_status ON content_items(status);
	CREATE INDEX IF NOT EXISTS idx_created_date ON content_items(created_date);
	CREATE INDEX IF NOT EXISTS idx_updated_date ON content_items(updated_date);
	CREATE INDEX IF NOT EXISTS idx_publish_date ON content_items(publish_date);
	CREATE INDEX IF NOT EXISTS idx_client ON content_items(client);

	CREATE VIRTUAL TABLE IF NOT EXISTS content_fts USING fts5(
		id UNINDEXED,
		title,
		description,
		body,
		tags
	);
	`

	_, err := d.db.Exec(schema)
	return err
}
