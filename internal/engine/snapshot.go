package engine

import (
	"context"
	"errors"
	"fmt"
)

var errNoSnapshots = errors.New("snapshots are not configured")

// SaveSnapshot writes a checksummed backup of the catalog and favorites.
func (e *Engine) SaveSnapshot(ctx context.Context, req *SnapshotRequest) (*SnapshotResult, error) {
	if e.snapshots == nil {
		return nil, errNoSnapshots
	}
	if req.Path == "" {
		return nil, fmt.Errorf("%w: snapshot path is required", ErrValidation)
	}

	snap, err := e.snapshots.Save(req.Path)
	if err != nil {
		return nil, err
	}
	fingerprint, err := e.snapshots.Fingerprint(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint snapshot: %w", err)
	}

	e.logger.Info("saved snapshot", "path", req.Path, "keys", len(snap.Entries))
	return &SnapshotResult{
		Path:        req.Path,
		Keys:        snap.Keys(),
		CreatedAt:   snap.CreatedAt,
		Checksum:    snap.Checksum,
		Fingerprint: fingerprint,
	}, nil
}

// RestoreSnapshot verifies a backup, writes it to storage and reloads the
// catalog and favorites from it.
func (e *Engine) RestoreSnapshot(ctx context.Context, req *SnapshotRequest) (*SnapshotResult, error) {
	if e.snapshots == nil {
		return nil, errNoSnapshots
	}
	if req.Path == "" {
		return nil, fmt.Errorf("%w: snapshot path is required", ErrValidation)
	}

	exists, err := e.fs.Exists(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, req.Path)
	}

	snap, err := e.snapshots.Restore(req.Path)
	if err != nil {
		return nil, err
	}
	e.store.Load()

	e.logger.Info("restored snapshot", "path", req.Path, "created", snap.CreatedAt)
	return &SnapshotResult{
		Path:      req.Path,
		Keys:      snap.Keys(),
		CreatedAt: snap.CreatedAt,
		Checksum:  snap.Checksum,
		Catalog:   len(e.store.Catalog()),
		Favorites: len(e.store.Favorites()),
	}, nil
}
