// Package sqlite implements cache.Store on SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/eir/cache"
	"github.com/sagarc03/eir/database/internal"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store keeps freshness entries in one table. Times are stored as Unix
// nanoseconds.
type Store struct {
	db        *sql.DB
	tableName string
}

// NewStore wraps an open database. The table must already be migrated.
func NewStore(db *sql.DB, table string) (*Store, error) {
	if err := internal.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}
	return &Store{db: db, tableName: quoteIdentifier(table)}, nil
}

func (s *Store) Get(ctx context.Context, path string) (cache.Entry, bool, error) {
	query := fmt.Sprintf(`SELECT etag, mod_time, accessed_at FROM %s WHERE path = ?`, s.tableName)

	var etag string
	var modTime, accessedAt int64
	err := s.db.QueryRowContext(ctx, query, path).Scan(&etag, &modTime, &accessedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		VALUES (?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE
		SET etag = excluded.etag,
			mod_time = excluded.mod_time,
			accessed_at = excluded.accessed_at
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, path, e.ETag, e.ModTime.UnixNano(), e.AccessedAt.UnixNano()); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE path = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, path); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.tableName)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *Store) Purge(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
