package store

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/pebble/v2"

	"github.com/ytget/eliot-client/internal/model"
)

// AppendHistory records a completed download. Keys are the history prefix
// followed by an 8-byte big-endian sequence number increasing monotonically.
func (s *Store) AppendHistory(e model.HistoryEntry) error {
	val, err := json.Marshal(e)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := make([]byte, len(historyPrefix)+8)
	copy(key, historyPrefix)
	binary.BigEndian.PutUint64(key[len(historyPrefix):], s.nextHistory)
	if err := s.db.Set(key, val, pebble.Sync); err != nil {
		return err
	}
	s.nextHistory++
	return nil
}

// History returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) History(limit int) ([]model.HistoryEntry, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: historyPrefix,
		UpperBound: prefixEnd(historyPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	out := make([]model.HistoryEntry, 0, 32)
	for it.Last(); it.Valid(); it.Prev() {
		var e model.HistoryEntry
		if err := json.Unmarshal(it.Value(), &e); err != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ClearHistory removes every history entry
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteRange(historyPrefix, prefixEnd(historyPrefix), pebble.Sync); err != nil {
		return err
	}
	s.nextHistory = 0
	return nil
}
