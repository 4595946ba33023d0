// Package database connects SQL backends that persist freshness entries.
//
// The package supports PostgreSQL and SQLite and handles connection
// management, migrations, and schema validation automatically.
//
// # Supported Backends
//
//   - PostgreSQL: shared cache for several server processes, using a pgx pool
//   - SQLite: single-node persistent cache using modernc.org/sqlite
//
// # Usage
//
//	store, err := database.Connect(ctx, database.Config{
//	    Type:  "sqlite",
//	    DSN:   "eir-cache.db",
//	    Table: "eir_cache",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	c := cache.New(store, time.Hour)
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
