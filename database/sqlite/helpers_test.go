package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/sagarc03/eir/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// openTestDB opens a file-backed database that is removed with the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err, "open sqlite")
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestStore creates a migrated store with a unique table name.
func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	db := openTestDB(t)
	table := fmt.Sprintf("cache_%s", getRandomString(t))

	require.NoError(t, sqlite.Migrate(ctx, db, table), "migrate")

	store, err := sqlite.NewStore(db, table)
	require.NoError(t, err, "new store")
	return store
}
