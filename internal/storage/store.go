// Package storage defines the key/value blob store that navigation state is
// persisted to, with file-system, SQLite, Redis and in-memory backends.
package storage

import (
	"context"
	"fmt"
	"regexp"
)

// Store is the persistence adapter used by routers.
type Store interface {
	// Load returns the blob stored under key, or apperr.ErrNotFound.
	Load(key string) ([]byte, error)
	// Save overwrites the blob stored under key.
	Save(key string, data []byte) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(key string) error
}

// HealthChecker is implemented by backends behind a connection that can go
// away. Readiness probes call it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Health checks s when it supports it. Other stores are always healthy.
func Health(ctx context.Context, s Store) error {
	if hc, ok := s.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	return nil
}

// Drivers accepted by Open.
const (
	DriverFS     = "fs"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidKey rejects keys that could not be used as a file name on every backend.
func ValidKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
