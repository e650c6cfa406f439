// Package persist saves and restores portable snapshots of festie state.
//
// A snapshot is a single JSON document holding the raw values of selected
// kv keys plus a SHA-256 checksum over them. Restoring verifies the checksum
// before anything in the live store is overwritten.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/hash"
	"github.com/danieljhkim/festie/internal/kv"
)

// FormatVersion is the snapshot layout written by this package.
const FormatVersion = 1

var (
	// ErrChecksumMismatch is returned when snapshot contents do not match their checksum.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrUnsupportedVersion is returned for snapshots written by a newer layout.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Snapshot is the on-disk document.
type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Checksum  string                     `json:"checksum"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

// Keys returns the entry keys in sorted order.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Entries))
	for k := range s.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SnapshotManager handles saving kv state to snapshot files and restoring it.
type SnapshotManager struct {
	fs     fsops.FS
	store  kv.Store
	hasher hash.Hasher
	clock  clock.Clock
	keys   []string
}

// NewSnapshotManager creates a SnapshotManager covering keys of store.
func NewSnapshotManager(fs fsops.FS, store kv.Store, hasher hash.Hasher, clk clock.Clock, keys ...string) *SnapshotManager {
	return &SnapshotManager{
		fs:     fs,
		store:  store,
		hasher: hasher,
		clock:  clk,
		keys:   keys,
	}
}

// checksum digests entries in key order. Values are compacted first so
// indentation in the file does not change the digest.
func (m *SnapshotManager) checksum(entries map[string]json.RawMessage) (string, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte('\n')
		if err := json.Compact(&buf, entries[k]); err != nil {
			return "", fmt.Errorf("entry %s is not valid JSON: %w", k, err)
		}
		buf.WriteByte('\n')
	}
	return m.hasher.Sum(buf.Bytes()), nil
}

// Capture reads the managed keys into a snapshot. Keys with no value are omitted.
func (m *SnapshotManager) Capture() (*Snapshot, error) {
	entries := make(map[string]json.RawMessage, len(m.keys))
	for _, key := range m.keys {
		value, ok, err := m.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		entries[key] = json.RawMessage(value)
	}

	sum, err := m.checksum(entries)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Version:   FormatVersion,
		CreatedAt: m.clock.Now().UTC(),
		Checksum:  sum,
		Entries:   entries,
	}, nil
}

// Save captures a snapshot and writes it to path.
func (m *SnapshotManager) Save(path string) (*Snapshot, error) {
	snap, err := m.Capture()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := m.fs.AtomicWrite(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return snap, nil
}

// Load reads and verifies the snapshot at path without applying it.
func (m *SnapshotManager) Load(path string) (*Snapshot, error) {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if err := m.Verify(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Verify checks the snapshot version and checksum.
func (m *SnapshotManager) Verify(snap *Snapshot) error {
	if snap.Version < 1 || snap.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	sum, err := m.checksum(snap.Entries)
	if err != nil {
		return err
	}
	if sum != snap.Checksum {
		return ErrChecksumMismatch
	}
	return nil
}

// Restore verifies the snapshot at path and replaces the managed keys in the
// store with its entries. Managed keys absent from the snapshot are deleted.
// Entries for keys this manager does not cover are ignored.
func (m *SnapshotManager) Restore(path string) (*Snapshot, error) {
	snap, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	for _, key := range m.keys {
		value, ok := snap.Entries[key]
		if !ok {
			if err := m.store.Delete(key); err != nil {
				return nil, fmt.Errorf("failed to clear %s: %w", key, err)
			}
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, value); err != nil {
			return nil, fmt.Errorf("entry %s is not valid JSON: %w", key, err)
		}
		if err := m.store.Set(key, compact.Bytes()); err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return snap, nil
}

// Fingerprint returns the digest of the snapshot file itself.
func (m *SnapshotManager) Fingerprint(path string) (string, error) {
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	return m.hasher.Sum(data), nil
}
