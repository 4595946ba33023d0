package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the cache table and its indexes if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if err := createCacheTable(ctx, pool, table); err != nil {
		return fmt.Errorf("migrate up %s: %w", table, err)
	}
	return nil
}

func DropTables(ctx context.Context, pool *pgxpool.Pool, table string) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{table}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", table, err)
	}
	return nil
}

func createCacheTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexAccessedAt := pgx.Identifier{fmt.Sprintf("idx_%s_accessed_at", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			path TEXT PRIMARY KEY,
			etag TEXT NOT NULL,
			mod_time BIGINT NOT NULL,
			accessed_at BIGINT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (accessed_at);
	`,
		quotedTable,
		indexAccessedAt, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}
