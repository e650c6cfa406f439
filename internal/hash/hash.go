// Package hash provides content hashing for integrity checks.
//
// festie uses SHA-256 digests to checksum lineup snapshots so a damaged or
// hand-edited backup is rejected before it replaces the live catalog. The
// package provides a real implementation using crypto/sha256 and a fake
// implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides an abstraction for hashing operations.
type Hasher interface {
	// Sum returns the hex digest of data.
	Sum(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Sum returns the hex-encoded SHA-256 of data.
func (h *SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic digests for testing.
// Sum returns the data itself, so mismatches are easy to read in failures.
type FakeHasher struct{}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{}
}

// Sum returns data as a string.
func (h *FakeHasher) Sum(data []byte) string {
	return string(data)
}
