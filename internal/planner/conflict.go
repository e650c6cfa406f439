package planner

import (
	"fmt"

	"github.com/danieljhkim/festie/internal/lineup"
)

// Conflict is a pair of performances whose time slots overlap.
// A precedes B in the input list.
type Conflict struct {
	A lineup.Performance `json:"a"`
	B lineup.Performance `json:"b"`
}

// Report is the outcome of a conflict scan.
type Report struct {
	// Conflicts lists every overlapping pair in discovery order.
	Conflicts []Conflict `json:"conflicts"`

	// Primary is the first conflict found, or nil when there are none.
	Primary *Conflict `json:"primary,omitempty"`

	// Suggestion is the split-set hint for Primary.
	Suggestion string `json:"suggestion,omitempty"`
}

// HasConflicts reports whether any pair overlaps.
func (r Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Detector computes a conflict report.
type Detector interface {
	Detect(perfs []lineup.Performance) Report
}

// Detector names accepted by DetectorFor.
const (
	DetectorPairwise = "pairwise"
	DetectorIndexed  = "indexed"
)

// DetectorFor returns the detector registered under name.
func DetectorFor(name string) (Detector, error) {
	switch name {
	case DetectorPairwise, "":
		return Pairwise{}, nil
	case DetectorIndexed:
		return Indexed{}, nil
	default:
		return nil, fmt.Errorf("unknown conflict detector %q", name)
	}
}

// Overlaps reports whether a and b overlap as half-open intervals.
// A performance without a start time never overlaps anything.
func Overlaps(a, b lineup.Performance) bool {
	if !a.Scheduled() || !b.Scheduled() {
		return false
	}
	return a.TimeStart < b.TimeEnd && b.TimeStart < a.TimeEnd
}

// Pairwise checks every pair. Fine for a personal shortlist.
type Pairwise struct{}

// Detect implements Detector.
func (Pairwise) Detect(perfs []lineup.Performance) Report {
	return Detect(perfs)
}

// Detect scans pairs (i, j) with i ascending and, for each i, j ascending from
// i+1. The first overlapping pair becomes the primary conflict.
func Detect(perfs []lineup.Performance) Report {
	var conflicts []Conflict
	for i := 0; i < len(perfs); i++ {
		for j := i + 1; j < len(perfs); j++ {
			if Overlaps(perfs[i], perfs[j]) {
				conflicts = append(conflicts, Conflict{A: perfs[i], B: perfs[j]})
			}
		}
	}
	return newReport(conflicts)
}

func newReport(conflicts []Conflict) Report {
	if len(conflicts) == 0 {
		return Report{Conflicts: []Conflict{}}
	}
	primary := conflicts[0]
	return Report{
		Conflicts:  conflicts,
		Primary:    &primary,
		Suggestion: Suggest(primary),
	}
}

// Suggest returns the split-set hint for a conflict.
func Suggest(c Conflict) string {
	return fmt.Sprintf("Split set: catch the first 30 minutes of %s, then head over to %s.", c.A.Name, c.B.Name)
}

// Describe renders a one-line warning for a conflict.
func Describe(c Conflict, style ClockStyle) string {
	return fmt.Sprintf("%s (%s) overlaps %s (%s)",
		c.A.Name, FormatRange(c.A, style),
		c.B.Name, FormatRange(c.B, style))
}
