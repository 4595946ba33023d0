// Package cachetest holds behavior tests shared by every cache.Store.
package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/sagarc03/eir/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests exercises s against the cache.Store contract. newStore must
// return an empty store.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) cache.Store) {
	t.Helper()

	mod := time.Date(2024, time.January, 2, 3, 4, 5, 678, time.UTC)
	accessed := mod.Add(time.Hour)

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)

		_, ok, err := s.Get(context.Background(), "/srv/missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := cache.Entry{ETag: `"1"`, ModTime: mod, AccessedAt: accessed}

		require.NoError(t, s.Put(ctx, "/srv/a.txt", want))

		got, ok, err := s.Get(ctx, "/srv/a.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want.ETag, got.ETag)
		assert.True(t, want.ModTime.Equal(got.ModTime), "mod time %v != %v", want.ModTime, got.ModTime)
		assert.True(t, want.AccessedAt.Equal(got.AccessedAt), "access time %v != %v", want.AccessedAt, got.AccessedAt)
	})

	t.Run("put replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "/srv/a.txt", cache.Entry{ETag: `"1"`, ModTime: mod, AccessedAt: accessed}))
		require.NoError(t, s.Put(ctx, "/srv/a.txt", cache.Entry{ETag: `"2"`, ModTime: mod, AccessedAt: accessed}))

		got, ok, err := s.Get(ctx, "/srv/a.txt")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `"2"`, got.ETag)

		n, err := s.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "/srv/a.txt", cache.Entry{ETag: `"1"`, ModTime: mod, AccessedAt: accessed}))
		require.NoError(t, s.Delete(ctx, "/srv/a.txt"))

		_, ok, err := s.Get(ctx, "/srv/a.txt")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, s.Delete(ctx, "/srv/a.txt"), "deleting twice")
	})

	t.Run("len and purge", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, p := range []string{"/srv/a", "/srv/b", "/srv/c"} {
			require.NoError(t, s.Put(ctx, p, cache.Entry{ETag: `"x"`, ModTime: mod, AccessedAt: accessed}))
		}

		n, err := s.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		require.NoError(t, s.Purge(ctx))

		n, err = s.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("paths with quotes and spaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		path := `/srv/it's a "file".txt`

		require.NoError(t, s.Put(ctx, path, cache.Entry{ETag: `"q"`, ModTime: mod, AccessedAt: accessed}))

		got, ok, err := s.Get(ctx, path)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `"q"`, got.ETag)
	})
}
