package cache

import (
	"context"
	"errors"
	"fmt"

	"draftcoach/internal/draft"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
	CREATE TABLE IF NOT EXISTS build_cache (
		cache_key TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		text TEXT NOT NULL,
		patch_detected TEXT NOT NULL,
		source TEXT NOT NULL
	)
`

// PostgresStore keeps entries in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and ensures the schema exists
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not configured")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the entry for key, or nil
func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, error) {
	var (
		e      Entry
		source string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT cache_key, created_at, text, patch_detected, source
		FROM build_cache WHERE cache_key = $1
	`, key).Scan(&e.Key, &e.CreatedAt, &e.Text, &e.PatchDetected, &source)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	e.Source = draft.Origin(source)
	return &e, nil
}

// Put stores or overwrites an entry
func (s *PostgresStore) Put(ctx context.Context, entry Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO build_cache (cache_key, created_at, text, patch_detected, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cache_key) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			text = EXCLUDED.text,
			patch_detected = EXCLUDED.patch_detected,
			source = EXCLUDED.source
	`, entry.Key, entry.CreatedAt, entry.Text, entry.PatchDetected, string(entry.Source))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// List returns all entries ordered by key
func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cache_key, created_at, text, patch_detected, source
		FROM build_cache ORDER BY cache_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			source string
		)
		if err := rows.Scan(&e.Key, &e.CreatedAt, &e.Text, &e.PatchDetected, &source); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		e.Source = draft.Origin(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
