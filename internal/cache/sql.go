package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"draftcoach/internal/draft"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const sqlSchema = `
	CREATE TABLE IF NOT EXISTS build_cache (
		cache_key TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		text TEXT NOT NULL,
		patch_detected TEXT NOT NULL,
		source TEXT NOT NULL
	)
`

// SQLStore keeps entries in a SQLite-dialect database (local sqlite or Turso)
type SQLStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) a local sqlite cache database
func OpenSQLite(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s, err := NewSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenTurso connects to a remote libsql database
func OpenTurso(url, token string) (*SQLStore, error) {
	if url == "" {
		return nil, fmt.Errorf("Turso URL not configured (set TURSO_DATABASE_URL)")
	}

	connStr := url
	if token != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, token)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Turso: %w", err)
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Turso: %w", err)
	}

	s, err := NewSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database and ensures the schema exists
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if _, err := db.Exec(sqlSchema); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Get returns the entry for key, or nil
func (s *SQLStore) Get(ctx context.Context, key string) (*Entry, error) {
	var (
		e       Entry
		created int64
		source  string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT cache_key, created_at, text, patch_detected, source FROM build_cache WHERE cache_key = ?",
		key,
	).Scan(&e.Key, &created, &e.Text, &e.PatchDetected, &source)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	e.CreatedAt = time.UnixMilli(created)
	e.Source = draft.Origin(source)
	return &e, nil
}

// Put stores or overwrites an entry
func (s *SQLStore) Put(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO build_cache (cache_key, created_at, text, patch_detected, source) VALUES (?, ?, ?, ?, ?)",
		entry.Key, entry.CreatedAt.UnixMilli(), entry.Text, entry.PatchDetected, string(entry.Source),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// List returns all entries ordered by key
func (s *SQLStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cache_key, created_at, text, patch_detected, source FROM build_cache ORDER BY cache_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
			source  string
		)
		if err := rows.Scan(&e.Key, &created, &e.Text, &e.PatchDetected, &source); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		e.Source = draft.Origin(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
