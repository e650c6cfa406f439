package engine

import (
	"time"

	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/planner"
)

// PerformanceInfo is a performance decorated for display.
type PerformanceInfo struct {
	lineup.Performance

	// Slot is the formatted time range, or "TBA"
	Slot string `json:"slot"`

	// Favorite reports whether the performance is favorited
	Favorite bool `json:"favorite"`
}

// LineupResult represents the catalog listing.
type LineupResult struct {
	Performances []PerformanceInfo `json:"performances"`
	Total        int               `json:"total"`
}

// FavoriteResult represents the outcome of a toggle.
type FavoriteResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Favorite bool   `json:"favorite"`

	// Favorites is the full favorite id list after the toggle
	Favorites []int64 `json:"favorites"`
}

// ScheduleResult represents the user's schedule.
type ScheduleResult struct {
	Performances []PerformanceInfo `json:"performances"`
	Conflicts    *ConflictResult   `json:"conflicts"`
}

// ConflictResult represents the conflict scan over the favorites.
type ConflictResult struct {
	planner.Report

	// Descriptions renders each conflict as text, in discovery order
	Descriptions []string `json:"descriptions"`
}

// UploadResult represents an uploaded artist.
type UploadResult struct {
	Performance lineup.Performance `json:"performance"`
	CatalogSize int                `json:"catalogSize"`
}

// ImportResult represents a completed import.
type ImportResult struct {
	Source  string               `json:"source"`
	Added   []lineup.Performance `json:"added"`
	Message string               `json:"message"`
}

// ExportResult represents an iCalendar export.
type ExportResult struct {
	// Path is where the file was written (empty if not written)
	Path string `json:"path,omitempty"`

	Events  int      `json:"events"`
	Skipped []string `json:"skipped,omitempty"`
	Data    []byte   `json:"-"`
}

// LinkResult represents a calendar template link.
type LinkResult struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// SnapshotResult represents a saved or restored snapshot.
type SnapshotResult struct {
	Path      string    `json:"path"`
	Keys      []string  `json:"keys"`
	CreatedAt time.Time `json:"createdAt"`
	Checksum  string    `json:"checksum"`

	// Fingerprint is the digest of the snapshot file (save only)
	Fingerprint string `json:"fingerprint,omitempty"`

	// Catalog and Favorites are the sizes after a restore
	Catalog   int `json:"catalog,omitempty"`
	Favorites int `json:"favorites,omitempty"`
}
