// Package calendar converts festival schedules to and from iCalendar.
//
// Export writes the scheduled favorites of one festival day as VEVENTs and
// builds a Google Calendar template link. ParseLineup reads a published ICS
// lineup so it can be imported as performances.
package calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/lineup"
	"github.com/danieljhkim/festie/internal/planner"
)

const productID = "-//festie//festival schedule//EN"

// uidSpace namespaces event UIDs so re-exports produce the same UID per performance.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://festie.app/performances"))

// Festival describes where and when performances happen.
type Festival struct {
	Name     string
	Day      time.Time
	Location *time.Location
	Venue    string
}

// Exporter renders schedules for one festival day.
type Exporter struct {
	festival Festival
	clock    clock.Clock
}

// NewExporter creates an Exporter. A nil Location means UTC.
func NewExporter(festival Festival, clk clock.Clock) *Exporter {
	if festival.Location == nil {
		festival.Location = time.UTC
	}
	return &Exporter{festival: festival, clock: clk}
}

// Export is a rendered calendar.
type Export struct {
	Data    []byte
	Events  int
	Skipped []string
}

// EventUID returns the stable iCalendar UID for a performance.
func EventUID(p lineup.Performance) string {
	return uuid.NewSHA1(uidSpace, []byte(strconv.FormatInt(p.ID, 10))).String() + "@festie"
}

// At converts an HHMM value to a time on the festival day.
func (e *Exporter) At(hhmm int) time.Time {
	d := e.festival.Day
	return time.Date(d.Year(), d.Month(), d.Day(), hhmm/100, hhmm%100, 0, 0, e.festival.Location)
}

// ICS renders perfs as an iCalendar document. Unscheduled performances and
// slots that end at or before they start (overnight sets) are skipped and
// listed in Export.Skipped.
func (e *Exporter) ICS(perfs []lineup.Performance) (*Export, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	out := &Export{}
	stamp := e.clock.Now().UTC()
	for _, p := range perfs {
		if !p.Scheduled() || p.TimeEnd <= p.TimeStart {
			out.Skipped = append(out.Skipped, p.Name)
			continue
		}

		ev := cal.AddEvent(EventUID(p))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(e.At(p.TimeStart))
		ev.SetEndAt(e.At(p.TimeEnd))
		ev.SetSummary(p.Name)
		if p.Genre != "" {
			ev.AddProperty(ical.ComponentPropertyCategories, p.Genre)
			ev.SetDescription(p.Genre)
		}
		if e.festival.Venue != "" {
			ev.SetLocation(e.festival.Venue)
		}
		out.Events++
	}

	out.Data = []byte(cal.Serialize())
	return out, nil
}

// Google Calendar template endpoint.
const googleTemplateURL = "https://calendar.google.com/calendar/render"

// TemplateLink builds a Google Calendar "add event" link listing perfs in
// the details field.
func (e *Exporter) TemplateLink(perfs []lineup.Performance, style planner.ClockStyle) string {
	title := e.festival.Name
	if title == "" {
		title = "My Festival Schedule"
	}

	var details strings.Builder
	details.WriteString("Festie Bestie Plan\n")
	if len(perfs) == 0 {
		details.WriteString("Check your app for details!")
	}
	for _, p := range perfs {
		fmt.Fprintf(&details, "%s  %s\n", planner.FormatRange(p, style), p.Name)
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("details", strings.TrimRight(details.String(), "\n"))
	return googleTemplateURL + "?" + q.Encode()
}
