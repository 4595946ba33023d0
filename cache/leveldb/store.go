// Package leveldb stores freshness entries in an on-disk LevelDB database so
// they survive restarts.
package leveldb

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/sagarc03/eir/cache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const entryPrefix = "e:"

// Store implements cache.Store.
type Store struct {
	db *leveldb.DB
}

// Open opens or creates the database directory at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func key(path string) []byte {
	return []byte(entryPrefix + path)
}

func (s *Store) Get(ctx context.Context, path string) (cache.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return cache.Entry{}, false, err
	}

	b, err := s.db.Get(key(path), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, fmt.Errorf("get %s: %w", path, err)
	}

	var e cache.Entry
	if err := decodeGob(b, &e); err != nil {
		// Unreadable records are treated as absent and dropped on next write.
		return cache.Entry{}, false, nil
	}
	return e, true, nil
}

func (s *Store) Put(ctx context.Context, path string, e cache.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := encodeGob(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := s.db.Put(key(path), b, nil); err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Delete(key(path), nil); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) Len(ctx context.Context) (int, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(entryPrefix)), nil)
	defer it.Release()

	n := 0
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n++
	}
	if err := it.Error(); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (s *Store) Purge(ctx context.Context) error {
	it := s.db.NewIterator(util.BytesPrefix([]byte(entryPrefix)), nil)
	defer it.Release()

	batch := new(leveldb.Batch)
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch.Delete(bytes.Clone(it.Key()))
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(b []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}
