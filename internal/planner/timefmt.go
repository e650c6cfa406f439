package planner

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/festie/internal/lineup"
)

// ClockStyle selects how hour 0 is rendered.
type ClockStyle int

const (
	// Conventional renders hour 0 as 12 ("12:30 AM").
	Conventional ClockStyle = iota
	// Literal keeps the raw arithmetic ("0:30 AM").
	Literal
)

// ParseClockStyle maps a config value to a ClockStyle.
func ParseClockStyle(s string) (ClockStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conventional":
		return Conventional, nil
	case "literal":
		return Literal, nil
	default:
		return Conventional, fmt.Errorf("unknown clock style %q", s)
	}
}

func (s ClockStyle) String() string {
	if s == Literal {
		return "literal"
	}
	return "conventional"
}

// TBA is shown for unscheduled times.
const TBA = "TBA"

// FormatTime renders an HHMM value as "H:MM AM/PM". Zero, negative and
// out-of-range values (minutes past 59, hours past 23) render as TBA.
func FormatTime(hhmm int, style ClockStyle) string {
	if hhmm <= 0 {
		return TBA
	}
	hour := hhmm / 100
	minute := hhmm % 100
	if hour > 23 || minute > 59 {
		return TBA
	}

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	if hour > 12 {
		hour -= 12
	}
	if hour == 0 && style == Conventional {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}

// FormatRange renders a performance's slot as "start - end", or TBA.
func FormatRange(p lineup.Performance, style ClockStyle) string {
	if !p.Scheduled() {
		return TBA
	}
	return FormatTime(p.TimeStart, style) + " - " + FormatTime(p.TimeEnd, style)
}
