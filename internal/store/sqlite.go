package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// SQLiteStore persists cache records in a local sqlite database: one row per
// rounded coordinate, payload as serialized JSON. Suits a single-device cache
// with no server round-trips.
type SQLiteStore struct {
	db *sql.DB
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS weather_cache (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	written_at INTEGER NOT NULL
);`

// NewSQLiteStore opens (and if needed initializes) the cache database at the
// given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// A device-local cache has one consumer; a single connection avoids
	// sqlite write contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Write upserts the record under its coordinate key (last write wins).
func (s *SQLiteStore) Write(rec *weather.CacheRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO weather_cache (key, payload, written_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, written_at = excluded.written_at`,
		rec.Coord.CacheKey(), string(payload), rec.WrittenAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write cache record: %w", err)
	}
	return nil
}

// Read returns the cached record for the coordinate, or ErrNotFound.
func (s *SQLiteStore) Read(coord weather.Coordinate) (*weather.CacheRecord, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM weather_cache WHERE key = ?`, coord.CacheKey(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache record: %w", err)
	}

	var rec weather.CacheRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}
	return &rec, nil
}

// SweepExpired deletes records older than maxAge and returns how many rows
// were removed.
func (s *SQLiteStore) SweepExpired(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).UTC().UnixMilli()

	res, err := s.db.Exec(`DELETE FROM weather_cache WHERE written_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
