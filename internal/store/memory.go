package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory cache store. Records are kept
// as their JSON serialization so reads observe exactly what a persistent
// store would return.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

type entry struct {
	payload   []byte
	writtenAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]entry)}
}

// Write serializes and stores the record under its coordinate key,
// overwriting any previous record (last write wins).
func (s *MemoryStore) Write(rec *weather.CacheRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.Coord.CacheKey()] = entry{payload: payload, writtenAt: rec.WrittenAt}
	return nil
}

// Read returns the cached record for the coordinate, or ErrNotFound.
func (s *MemoryStore) Read(coord weather.Coordinate) (*weather.CacheRecord, error) {
	s.mu.RLock()
	e, ok := s.data[coord.CacheKey()]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var rec weather.CacheRecord
	if err := json.Unmarshal(e.payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SweepExpired removes records older than maxAge and returns how many were
// dropped.
func (s *MemoryStore) SweepExpired(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.data {
		if e.writtenAt.Before(cutoff) {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}

// Close satisfies the persistent-store shape; nothing to release.
func (s *MemoryStore) Close() error { return nil }
