package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/danieljhkim/festie/internal/calendar"
	"github.com/danieljhkim/festie/internal/fsops"
	"github.com/danieljhkim/festie/internal/lineup"
)

// Source names used in completion messages.
const (
	SourcePoster   = "Poster"
	SourceLink     = "Link"
	SourceCalendar = "Calendar"
)

// DefaultGenre is assigned to imported performances that arrive without one.
const DefaultGenre = "Various"

// ErrInvalidLink is returned for lineup links that are not absolute http(s) URLs.
var ErrInvalidLink = errors.New("invalid lineup link")

// discovered is the lineup the simulated recognizers "find".
var discovered = []lineup.Performance{
	{Name: "Neon Dreams", Image: "https://images.unsplash.com/photo-1501386761578-eac5c94b800a?auto=format&fit=crop&q=80"},
	{Name: "The Midnight Echo", Image: "https://images.unsplash.com/photo-1498038432885-c6f3f1b912ee?auto=format&fit=crop&q=80"},
	{Name: "Electric Youth", Image: "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?auto=format&fit=crop&q=80"},
}

var genres = map[string]string{
	"Neon Dreams":       "Synth Pop",
	"The Midnight Echo": "Alternative",
	"Electric Youth":    "Electronic",
}

// simulated is a Pipeline that returns a fixed lineup. Scan only checks
// that the input is usable.
type simulated struct {
	source string
	steps  map[Stage]Step
	check  func() error
}

func (s *simulated) Source() string { return s.source }

func (s *simulated) Describe(stage Stage) Step { return s.steps[stage] }

func (s *simulated) Scan(ctx context.Context) ([]lineup.Performance, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return append([]lineup.Performance{}, discovered...), nil
}

func (s *simulated) Match(ctx context.Context, found []lineup.Performance) ([]lineup.Performance, error) {
	return matchGenres(found, genres), nil
}

// Build leaves slots unannounced; the simulated sources carry no times.
func (s *simulated) Build(ctx context.Context, matched []lineup.Performance) ([]lineup.Performance, error) {
	return matched, nil
}

// NewPosterPipeline simulates reading a lineup poster image at path.
func NewPosterPipeline(fs fsops.FS, path string) Pipeline {
	return &simulated{
		source: SourcePoster,
		steps: map[Stage]Step{
			StageScanning: {Status: "Detecting Text...", Detail: "Found 15 potential artist names..."},
			StageMatching: {Status: "Matching Genres...", Detail: "Categorizing into Indie, Rock, Pop..."},
			StageBuilding: {Status: "Building Schedule...", Detail: "Assigning time slots..."},
		},
		check: func() error {
			dataURL, err := fs.ReadDataURL(path)
			if err != nil {
				return fmt.Errorf("failed to read poster: %w", err)
			}
			if !strings.HasPrefix(dataURL, "data:image/") {
				return fmt.Errorf("poster %s is not an image", path)
			}
			return nil
		},
	}
}

// NewLinkPipeline simulates scraping the lineup page at rawURL.
func NewLinkPipeline(rawURL string) (Pipeline, error) {
	if err := ValidateLink(rawURL); err != nil {
		return nil, err
	}
	return &simulated{
		source: SourceLink,
		steps: map[Stage]Step{
			StageScanning: {Status: "Scraping Website...", Detail: "Accessing " + rawURL},
			StageMatching: {Status: "Extracting Data...", Detail: "Found table data..."},
			StageBuilding: {Status: "Building Schedule...", Detail: "Assigning time slots..."},
		},
		check: func() error { return nil },
	}, nil
}

// ValidateLink checks that rawURL is an absolute http or https URL.
func ValidateLink(rawURL string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLink, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidLink)
	}
	return nil
}

// calendarPipeline imports the events of an iCalendar file.
type calendarPipeline struct {
	fs   fsops.FS
	path string
	loc  *time.Location
}

// NewCalendarPipeline imports a published ICS lineup. Event times are read
// in loc.
func NewCalendarPipeline(fs fsops.FS, path string, loc *time.Location) Pipeline {
	return &calendarPipeline{fs: fs, path: path, loc: loc}
}

func (c *calendarPipeline) Source() string { return SourceCalendar }

func (c *calendarPipeline) Describe(stage Stage) Step {
	switch stage {
	case StageScanning:
		return Step{Status: "Reading Calendar...", Detail: "Parsing " + c.path}
	case StageMatching:
		return Step{Status: "Matching Genres...", Detail: "Reading event categories..."}
	case StageBuilding:
		return Step{Status: "Building Schedule...", Detail: "Assigning time slots..."}
	}
	return Step{}
}

func (c *calendarPipeline) Scan(ctx context.Context) ([]lineup.Performance, error) {
	data, err := c.fs.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	return calendar.ParseLineup(bytes.NewReader(data), c.loc)
}

func (c *calendarPipeline) Match(ctx context.Context, found []lineup.Performance) ([]lineup.Performance, error) {
	return matchGenres(found, nil), nil
}

// Build keeps only well-formed slots. Events that end before they start,
// or that have a start but no end, become unannounced.
func (c *calendarPipeline) Build(ctx context.Context, matched []lineup.Performance) ([]lineup.Performance, error) {
	out := make([]lineup.Performance, len(matched))
	for i, p := range matched {
		if p.TimeStart <= 0 || p.TimeEnd <= p.TimeStart {
			p.TimeStart, p.TimeEnd = 0, 0
		}
		out[i] = p
	}
	return out, nil
}

// matchGenres fills in missing genres from known, falling back to DefaultGenre.
func matchGenres(found []lineup.Performance, known map[string]string) []lineup.Performance {
	out := make([]lineup.Performance, len(found))
	for i, p := range found {
		if p.Genre == "" {
			p.Genre = known[p.Name]
		}
		if p.Genre == "" {
			p.Genre = DefaultGenre
		}
		out[i] = p
	}
	return out
}
