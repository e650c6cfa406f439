// Package engine provides the core business logic for festie operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the lineup store, the conflict planner, the import wizard and the calendar
// exporter.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Lineup/Favorites: Catalog browsing and the favorite set
//   - Conflicts: Overlap scan over the favorited performances
//   - Import/Upload: Adding performances from posters, links and calendars
//   - Export: iCalendar files and calendar template links
//   - Snapshots: checksummed backup and restore of the lineup state
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danieljhkim/festie/internal/calendar"
	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/importer"
	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/persist"
	"github.com/danieljhkim/festie/internal/planner"
)

// Options configures an Engine.
type Options struct {
	// Detector scans for conflicts (default: pairwise)
	Detector planner.Detector

	// Style controls how times are rendered
	Style planner.ClockStyle

	// Festival places HHMM slots on a calendar day
	Festival calendar.Festival

	// StageDelay is the pause between import wizard stages
	StageDelay time.Duration

	// Snapshots backs up and restores lineup state (optional)
	Snapshots *persist.SnapshotManager

	Logger *slog.Logger
}

// Engine orchestrates all festie operations.
// It is the main API surface called by the CLI.
type Engine struct {
	store     *lineup.Store
	fs        fsops.FS
	detector  planner.Detector
	style     planner.ClockStyle
	location  *time.Location
	exporter  *calendar.Exporter
	wizard    *importer.Wizard
	snapshots *persist.SnapshotManager
	logger    *slog.Logger
}

// New creates a new Engine with the given dependencies.
func New(store *lineup.Store, fs fsops.FS, clk clock.Clock, opts Options) *Engine {
	if opts.Detector == nil {
		opts.Detector = planner.Pairwise{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Festival.Location == nil {
		opts.Festival.Location = time.UTC
	}

	return &Engine{
		store:     store,
		fs:        fs,
		detector:  opts.Detector,
		style:     opts.Style,
		location:  opts.Festival.Location,
		exporter:  calendar.NewExporter(opts.Festival, clk),
		wizard:    importer.NewWizard(store, opts.StageDelay, opts.Logger),
		snapshots: opts.Snapshots,
		logger:    opts.Logger,
	}
}

func (e *Engine) describe(perfs []lineup.Performance) []PerformanceInfo {
	out := make([]PerformanceInfo, len(perfs))
	for i, p := range perfs {
		out[i] = PerformanceInfo{
			Performance: p,
			Slot:        planner.FormatRange(p, e.style),
			Favorite:    e.store.IsFavorite(p.ID),
		}
	}
	return out
}

// Lineup lists the catalog, optionally filtered by name.
func (e *Engine) Lineup(ctx context.Context, req *LineupRequest) (*LineupResult, error) {
	perfs := e.store.Search(strings.TrimSpace(req.Search))
	return &LineupResult{
		Performances: e.describe(perfs),
		Total:        len(e.store.Catalog()),
	}, nil
}

// ToggleFavorite adds or removes a performance from the favorites.
//
// Any id is accepted. Ids missing from the catalog are kept in the favorite
// set but never appear in the schedule. Name is empty for them.
func (e *Engine) ToggleFavorite(ctx context.Context, req *FavoriteRequest) (*FavoriteResult, error) {
	p, _ := e.store.Lookup(req.ID)

	ids, err := e.store.ToggleFavorite(req.ID)
	if err != nil {
		return nil, err
	}

	return &FavoriteResult{
		ID:        req.ID,
		Name:      p.Name,
		Favorite:  e.store.IsFavorite(req.ID),
		Favorites: ids,
	}, nil
}

// Favorites returns the favorited performances with their conflict report.
func (e *Engine) Favorites(ctx context.Context) (*ScheduleResult, error) {
	favs := e.store.FavoritePerformances()
	return &ScheduleResult{
		Performances: e.describe(favs),
		Conflicts:    e.conflicts(favs),
	}, nil
}

// Conflicts scans the favorited performances for overlapping slots.
func (e *Engine) Conflicts(ctx context.Context) (*ConflictResult, error) {
	return e.conflicts(e.store.FavoritePerformances()), nil
}

func (e *Engine) conflicts(favs []lineup.Performance) *ConflictResult {
	report := e.detector.Detect(favs)
	descriptions := make([]string, len(report.Conflicts))
	for i, c := range report.Conflicts {
		descriptions[i] = planner.Describe(c, e.style)
	}
	if report.HasConflicts() {
		e.logger.Debug("schedule conflicts", "count", len(report.Conflicts))
	}
	return &ConflictResult{Report: report, Descriptions: descriptions}
}

// Upload adds a placeholder artist whose artwork is the image at req.Path.
func (e *Engine) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: image path is required", ErrValidation)
	}

	exists, err := e.fs.Exists(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to check image: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: image %s", ErrNotFound, req.Path)
	}

	dataURL, err := e.fs.ReadDataURL(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, fmt.Errorf("%w: %s is not an image", ErrValidation, req.Path)
	}

	catalog, err := e.store.AddPerformanceFromUpload(dataURL)
	if err != nil {
		return nil, err
	}

	e.logger.Info("uploaded artist", "id", catalog[0].ID, "bytes", len(dataURL))
	return &UploadResult{
		Performance: catalog[0],
		CatalogSize: len(catalog),
	}, nil
}

// Import runs the import wizard for req, reporting each stage to observe.
func (e *Engine) Import(ctx context.Context, req *ImportRequest, observe importer.Observer) (*ImportResult, error) {
	pipeline, err := e.pipeline(req)
	if err != nil {
		return nil, err
	}

	res, err := e.wizard.Run(ctx, pipeline, observe)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrBusy):
			return nil, ErrImportBusy
		case errors.Is(err, importer.ErrNothingFound):
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}

	return &ImportResult{
		Source:  res.Source,
		Added:   res.Added,
		Message: res.Message(),
	}, nil
}

func (e *Engine) pipeline(req *ImportRequest) (importer.Pipeline, error) {
	if req.Target == "" {
		return nil, fmt.Errorf("%w: import target is required", ErrValidation)
	}

	switch req.Kind {
	case ImportPoster:
		return importer.NewPosterPipeline(e.fs, req.Target), nil
	case ImportLink:
		p, err := importer.NewLinkPipeline(req.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return p, nil
	case ImportCalendar:
		return importer.NewCalendarPipeline(e.fs, req.Target, e.location), nil
	default:
		return nil, fmt.Errorf("%w: unknown import source %q", ErrValidation, req.Kind)
	}
}

// ExportICS renders the scheduled favorites as an iCalendar file.
func (e *Engine) ExportICS(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	out, err := e.exporter.ICS(e.store.FavoritePerformances())
	if err != nil {
		return nil, fmt.Errorf("failed to export calendar: %w", err)
	}

	result := &ExportResult{
		Events:  out.Events,
		Skipped: out.Skipped,
		Data:    out.Data,
	}
	if req.Out == "" {
		return result, nil
	}

	if err := e.fs.AtomicWrite(req.Out, out.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", req.Out, err)
	}
	result.Path = req.Out
	e.logger.Info("exported calendar", "path", req.Out, "events", out.Events)
	return result, nil
}

// CalendarLink builds a calendar template link listing the favorites.
func (e *Engine) CalendarLink(ctx context.Context) (*LinkResult, error) {
	favs := e.store.FavoritePerformances()
	return &LinkResult{
		URL:   e.exporter.TemplateLink(favs, e.style),
		Count: len(favs),
	}, nil
}
