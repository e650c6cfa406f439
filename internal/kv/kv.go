// Package kv provides the key-value persistence used by the lineup store.
//
// Values are opaque byte slices (festie stores JSON). Three backends exist:
//   - FileStore: one file per key, written atomically via fsops
//   - SQLStore: one row per key in a SQLite database (gorm)
//   - MemoryStore: process-local map, used by tests and the "memory" driver
package kv

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/fsops"
)

// Store is a scoped key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Missing keys are not an error.
	Delete(key string) error

	// Close releases resources held by the store.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open creates a store for the given driver rooted at dataDir.
func Open(driver string, fs fsops.FS, clk clock.Clock, dataDir string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(fs, dataDir), nil
	case DriverSQLite:
		if err := fs.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return OpenSQLStore(filepath.Join(dataDir, "festie.db"), clk)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
