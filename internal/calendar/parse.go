package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/danieljhkim/festie/internal/lineup"
)

// ErrEmptyCalendar is returned when a calendar holds no usable events.
var ErrEmptyCalendar = errors.New("calendar has no events")

// ParseLineup reads VEVENTs from r as performances. SUMMARY becomes the name,
// the first CATEGORIES value the genre, and DTSTART/DTEND are converted to
// HHMM in loc. Events without a summary are skipped; events with unreadable
// times are kept as unscheduled. Returned performances have no id.
func ParseLineup(r io.Reader, loc *time.Location) ([]lineup.Performance, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var out []lineup.Performance
	for _, ev := range cal.Events() {
		summary := ev.GetProperty(ical.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}

		p := lineup.Performance{Name: strings.TrimSpace(summary.Value)}
		if cat := ev.GetProperty(ical.ComponentPropertyCategories); cat != nil {
			p.Genre = strings.TrimSpace(strings.Split(cat.Value, ",")[0])
		}

		start, serr := ev.GetStartAt()
		end, eerr := ev.GetEndAt()
		if serr == nil && eerr == nil {
			p.TimeStart = hhmm(start.In(loc))
			p.TimeEnd = hhmm(end.In(loc))
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, ErrEmptyCalendar
	}
	return out, nil
}

func hhmm(t time.Time) int {
	return t.Hour()*100 + t.Minute()
}
