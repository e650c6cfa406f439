// Package fsops provides filesystem operations with safety guarantees.
//
// All filesystem access in festie goes through the FS interface: the file-backed
// key-value store, the YAML config writer, and the upload/import readers.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Key validation so storage keys cannot escape their directory
//   - Data URL encoding for uploaded artwork
//   - Testable via the FS interface
package fsops

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// ReadDataURL reads a file and encodes it as a data URL.
	ReadDataURL(path string) (string, error)

	// ValidateKey validates a storage key for safety.
	ValidateKey(key string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".festie-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ReadDataURL reads the file at path and returns it as a
// "data:<mime>;base64,<payload>" string. The MIME type is sniffed from content.
func (fs *RealFS) ReadDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(data), nil
}

// EncodeDataURL encodes raw bytes as a base64 data URL.
func EncodeDataURL(data []byte) string {
	mime := http.DetectContentType(data)
	// DetectContentType may append parameters ("text/plain; charset=utf-8")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ValidateKey validates a storage key (used as a file name) for safety.
// Returns an error if the key is empty, contains path separators, or attempts traversal.
func (fs *RealFS) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("invalid key: empty")
	}

	if strings.Contains(key, string(filepath.Separator)) || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid key: must not contain path separators")
	}

	if key == "." || key == ".." || strings.HasPrefix(key, "..") {
		return fmt.Errorf("invalid key: path traversal not allowed")
	}

	return nil
}
