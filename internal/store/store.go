// Package store keeps client-local state in a PebbleDB key-value store: the
// string preference flags used when no Fyne preferences are available, and the
// history of completed downloads.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble/v2"
	"github.com/cockroachdb/pebble/v2/vfs"
)

// ErrNotFound is returned when a key is absent
var ErrNotFound = errors.New("store: not found")

// ErrLocked is returned by Open when another process holds the directory
var ErrLocked = errors.New("store: in use by another eliot process")

// Key prefixes
var (
	prefPrefix    = []byte("pref/")
	historyPrefix = []byte("hist/")
)

// Store wraps a Pebble database living directly at the provided directory.
type Store struct {
	db   *pebble.DB
	lock *pebble.Lock

	mu          sync.Mutex
	nextHistory uint64
}

// Open opens (or creates) the store at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	dir = filepath.Clean(dir)
	lock, err := pebble.LockDirectory(dir, vfs.Default)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, dir, err)
	}
	db, err := pebble.Open(dir, &pebble.Options{Lock: lock, Logger: pebbleLogger{}})
	if err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("store: open pebble: %w", err)
	}
	s := &Store{db: db, lock: lock}

	// Discover next history sequence by reading the last history key.
	it, err := db.NewIter(&pebble.IterOptions{
		LowerBound: historyPrefix,
		UpperBound: prefixEnd(historyPrefix),
	})
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if it.Last() {
		k := it.Key()
		if len(k) == len(historyPrefix)+8 {
			s.nextHistory = binary.BigEndian.Uint64(k[len(historyPrefix):]) + 1
		}
	}
	if err := it.Close(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close flushes and closes the database, then releases the directory.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if lerr := s.lock.Close(); err == nil {
		err = lerr
	}
	s.db = nil
	return err
}

func (s *Store) get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func prefKey(key string) []byte {
	return append(append([]byte{}, prefPrefix...), key...)
}

// prefixEnd returns the smallest key greater than every key with the prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
