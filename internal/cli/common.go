package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/danieljhkim/festie/internal/calendar"
	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/config"
	"github.com/danieljhkim/festie/internal/engine"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/hash"
	"github.com/danieljhkim/festie/internal/kv"
	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/logging"
	"github.com/danieljhkim/festie/internal/persist"
	"github.com/danieljhkim/festie/internal/planner"
)

// newEngine creates a new engine with real implementations of all dependencies.
// The returned func closes the backing store.
func newEngine() (*engine.Engine, func(), error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	fs := fsops.NewRealFS()
	cfg, err := config.Load(fs, paths.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()

	logger := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	opts, err := engineOptions(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	clk := &clock.RealClock{}
	store, err := kv.Open(cfg.Storage, fs, clk, paths.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	lineupStore := lineup.NewStore(store, clock.NewIDSource(clk), logger)
	lineupStore.Load()

	opts.Snapshots = persist.NewSnapshotManager(fs, store, hash.NewSHA256Hasher(), clk,
		lineup.CatalogKey, lineup.FavoritesKey)

	// Festival day is resolved against the wall clock once per invocation.
	day, err := cfg.FestivalDay(clk.Now(), opts.Festival.Location)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	opts.Festival.Day = day

	closer := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}
	return engine.New(lineupStore, fs, clk, opts), closer, nil
}

// engineOptions translates config into engine options.
func engineOptions(cfg *config.Config, logger *slog.Logger) (engine.Options, error) {
	detector, err := planner.DetectorFor(cfg.Detector)
	if err != nil {
		return engine.Options{}, err
	}
	style, err := planner.ParseClockStyle(cfg.ClockStyle)
	if err != nil {
		return engine.Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return engine.Options{}, err
	}

	return engine.Options{
		Detector: detector,
		Style:    style,
		Festival: calendar.Festival{
			Name:     cfg.Festival.Name,
			Location: loc,
			Venue:    cfg.Festival.Venue,
		},
		StageDelay: cfg.StageDelay(),
		Logger:     logger,
	}, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
