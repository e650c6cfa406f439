// Package config manages festie configuration and filesystem paths.
//
// The default root is ~/.festie/, containing data/ (the key-value store) and
// config.yaml. The root can be moved with the FESTIE_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the festie root directory.
const RootEnv = "FESTIE_ROOT"

// Paths contains all the filesystem paths used by festie.
type Paths struct {
	// Root is the base directory for all festie data (default: ~/.festie)
	Root string

	// Data is the directory holding persisted lineup state
	Data string

	// Config is the path to the YAML config file
	Config string
}

// DefaultPaths returns the default paths for festie.
// Paths can be overridden with environment variables:
// - FESTIE_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".festie")
	}
	return PathsAt(root), nil
}

// PathsAt returns the layout rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:   root,
		Data:   filepath.Join(root, "data"),
		Config: filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Data} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
