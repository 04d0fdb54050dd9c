// Package store persists weather cache records keyed by rounded coordinate.
// Two implementations share the contract: a sqlite-backed store for the
// device cache and an in-memory store used when no cache path is configured
// and in tests.
package store

import "errors"

// ErrNotFound is returned when no record is cached for a coordinate.
var ErrNotFound = errors.New("no cached weather data for coordinate")
