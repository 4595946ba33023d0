// Package postgres implements cache.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/eir/cache"
	"github.com/sagarc03/eir/database/internal"
)

// Store keeps freshness entries in one table. Times are stored as Unix
// nanoseconds.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewStore wraps a pool. The table must already be migrated.
func NewStore(pool *pgxpool.Pool, table string) (*Store, error) {
	if err := internal.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}
	return &Store{pool: pool, tableName: pgx.Identifier{table}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Get(ctx context.Context, path string) (cache.Entry, bool, error) {
	query := fmt.Sprintf(`SELECT etag, mod_time, accessed_at FROM %s WHERE path = $1`, s.tableName)

	var etag string
	var modTime, accessedAt int64
	err := s.pool.QueryRow(ctx, query, path).Scan(&etag, &modTime, &accessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cache.Entry{}, false, nil
		}
		return cache.Entry{}, false, fmt.Errorf("get: %w", err)
	}

	return cache.Entry{
		ETag:       etag,
		ModTime:    time.Unix(0, modTime),
		AccessedAt: time.Unix(0, accessedAt),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, path string, e cache.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (path, etag, mod_time, accessed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET etag = EXCLUDED.etag,
			mod_time = EXCLUDED.mod_time,
			accessed_at = EXCLUDED.accessed_at
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query, path, e.ETag, e.ModTime.UnixNano(), e.AccessedAt.UnixNano()); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE path = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, path); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.tableName)
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *Store) Purge(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
