package engine

// LineupRequest represents a request to list the catalog.
type LineupRequest struct {
	// Search filters by case-insensitive name substring (empty = all)
	Search string
}

// FavoriteRequest represents a request to toggle a favorite.
type FavoriteRequest struct {
	// ID is the performance id to toggle
	ID int64
}

// UploadRequest represents a request to add an artist from an image.
type UploadRequest struct {
	// Path is the image file to upload
	Path string
}

// Import source kinds.
const (
	ImportPoster   = "poster"
	ImportLink     = "link"
	ImportCalendar = "ics"
)

// ImportRequest represents a request to run the import wizard.
type ImportRequest struct {
	// Kind is one of ImportPoster, ImportLink, ImportCalendar
	Kind string

	// Target is the poster path, lineup URL, or ICS file path
	Target string
}

// ExportRequest represents a request to export favorites as iCalendar.
type ExportRequest struct {
	// Out is the destination file; empty returns the data without writing
	Out string
}

// SnapshotRequest represents a request to save or restore a snapshot.
type SnapshotRequest struct {
	// Path is the snapshot file
	Path string
}
