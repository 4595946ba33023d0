package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/eir/cache"
	"github.com/sagarc03/eir/database/internal"
	"github.com/sagarc03/eir/database/postgres"
	"github.com/sagarc03/eir/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for connecting to a cache backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string
	// DSN is the data source name (connection string)
	DSN string
	// Table is the name of the cache table
	Table string
}

// Connect establishes a connection to the configured database backend,
// runs migrations, validates the schema, and returns a cache.Store.
// Closing the store closes the connection.
func Connect(ctx context.Context, cfg Config) (cache.Store, error) {
	if err := internal.ValidateTableName(cfg.Table); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN, cfg.Table)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectSQLite(ctx context.Context, dsn, table string) (cache.Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = sqlite.Migrate(ctx, db, table); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = sqlite.ValidateSchema(ctx, db, table); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	store, err := sqlite.NewStore(db, table)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite store: %w", err)
	}

	return store, nil
}

func connectPostgres(ctx context.Context, dsn, table string) (cache.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = postgres.Migrate(ctx, pool, table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = postgres.ValidateSchema(ctx, pool, table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	store, err := postgres.NewStore(pool, table)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create postgres store: %w", err)
	}

	return store, nil
}
