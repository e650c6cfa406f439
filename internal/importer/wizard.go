// Package importer runs lineup imports as a staged wizard.
//
// Every import moves through the same stages in the same order:
// Idle, Scanning, Matching, Building, then Complete. A failed or cancelled
// import ends in Failed instead. Observers receive one Progress event per
// stage; the stage names and their order are what renderers rely on.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danieljhkim/festie/internal/lineup"
)

// Stage is a step of the import wizard.
type Stage string

const (
	StageIdle     Stage = "idle"
	StageScanning Stage = "scanning"
	StageMatching Stage = "matching"
	StageBuilding Stage = "building"
	StageComplete Stage = "complete"
	StageFailed   Stage = "failed"
)

var (
	// ErrBusy is returned when an import is started while another is running.
	ErrBusy = errors.New("import already in progress")

	// ErrNothingFound is returned when a pipeline produces no performances.
	ErrNothingFound = errors.New("no performances found")
)

// Step is the user-facing text for a stage.
type Step struct {
	Status string
	Detail string
}

// Progress is reported to observers on every stage transition.
type Progress struct {
	Source string
	Stage  Stage
	Step
}

// Observer receives progress events. It is called synchronously from Run.
type Observer func(Progress)

// Pipeline discovers performances from one kind of source.
type Pipeline interface {
	// Source names the import for messages, e.g. "Poster".
	Source() string

	// Describe returns the text shown while stage runs.
	Describe(stage Stage) Step

	Scan(ctx context.Context) ([]lineup.Performance, error)
	Match(ctx context.Context, found []lineup.Performance) ([]lineup.Performance, error)
	Build(ctx context.Context, matched []lineup.Performance) ([]lineup.Performance, error)
}

// Sink receives the finished batch.
type Sink interface {
	PrependPerformances(items []lineup.Performance) ([]lineup.Performance, error)
}

// Result is the outcome of a completed import.
type Result struct {
	Source  string
	Added   []lineup.Performance
	Catalog []lineup.Performance
}

// Message is the completion notice shown to the user.
func (r *Result) Message() string {
	return fmt.Sprintf("%s Analyzed! Added %d new artists.", r.Source, len(r.Added))
}

// Wizard runs one import at a time.
type Wizard struct {
	sink   Sink
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	stage   Stage
	running bool
}

// NewWizard creates a Wizard. delay is the pause after each stage is
// announced, so a renderer has time to show it.
func NewWizard(sink Sink, delay time.Duration, logger *slog.Logger) *Wizard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Wizard{
		sink:   sink,
		delay:  delay,
		logger: logger,
		stage:  StageIdle,
	}
}

// Stage returns the current stage.
func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Run executes p through every stage and prepends the result to the sink.
func (w *Wizard) Run(ctx context.Context, p Pipeline, observe Observer) (*Result, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.running = true
	w.stage = StageIdle
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if observe == nil {
		observe = func(Progress) {}
	}

	res, err := w.run(ctx, p, observe)
	if err != nil {
		w.enter(p, StageFailed, Step{Status: "Import Failed", Detail: err.Error()}, observe)
		w.logger.Warn("import failed", "source", p.Source(), "error", err)
		return nil, err
	}

	w.enter(p, StageComplete, Step{Status: "Import Complete", Detail: res.Message()}, observe)
	w.logger.Info("import complete", "source", res.Source, "added", len(res.Added))
	return res, nil
}

func (w *Wizard) run(ctx context.Context, p Pipeline, observe Observer) (*Result, error) {
	if err := w.announce(ctx, p, StageScanning, observe); err != nil {
		return nil, err
	}
	found, err := p.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if err := w.announce(ctx, p, StageMatching, observe); err != nil {
		return nil, err
	}
	matched, err := p.Match(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("match failed: %w", err)
	}

	if err := w.announce(ctx, p, StageBuilding, observe); err != nil {
		return nil, err
	}
	built, err := p.Build(ctx, matched)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	if len(built) == 0 {
		return nil, ErrNothingFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog, err := w.sink.PrependPerformances(built)
	if err != nil {
		return nil, fmt.Errorf("failed to add imported performances: %w", err)
	}

	return &Result{
		Source:  p.Source(),
		Added:   catalog[:len(built)],
		Catalog: catalog,
	}, nil
}

// announce enters stage, notifies the observer and waits out the delay.
func (w *Wizard) announce(ctx context.Context, p Pipeline, stage Stage, observe Observer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.enter(p, stage, p.Describe(stage), observe)
	w.logger.Debug("import stage", "source", p.Source(), "stage", stage)
	return w.wait(ctx)
}

func (w *Wizard) enter(p Pipeline, stage Stage, step Step, observe Observer) {
	w.mu.Lock()
	w.stage = stage
	w.mu.Unlock()
	observe(Progress{Source: p.Source(), Stage: stage, Step: step})
}

func (w *Wizard) wait(ctx context.Context) error {
	if w.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(w.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
