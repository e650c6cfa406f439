// Package lineup owns the festival catalog and the user's favorites.
//
// The catalog is an ordered list of Performances, newest imports first. The
// favorite set is an ordered set of performance ids. Both are persisted as
// JSON through a kv.Store under the keys "artists" and "favorites", the same
// shape the browser build keeps in localStorage.
package lineup

import "strings"

// Performance is a scheduled festival act.
type Performance struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
	Image string `json:"image"`

	// TimeStart and TimeEnd encode a 24-hour clock time as HHMM (2130 = 9:30 PM).
	// Zero means the slot has not been announced.
	TimeStart int `json:"timeStart,omitempty"`
	TimeEnd   int `json:"timeEnd,omitempty"`
}

// Scheduled reports whether the performance has a start time.
func (p Performance) Scheduled() bool {
	return p.TimeStart > 0
}

// matches reports whether the name contains term, ignoring case.
func (p Performance) matches(term string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
}

// Seed returns the built-in default catalog.
func Seed() []Performance {
	return []Performance{
		{ID: 1, Name: "The Strokes", Genre: "Indie Rock", Image: "https://images.unsplash.com/photo-1598387993441-a364f854c3e1?auto=format&fit=crop&q=80", TimeStart: 2000, TimeEnd: 2130},
		{ID: 2, Name: "SZA", Genre: "R&B", Image: "https://images.unsplash.com/photo-1493225255756-d9584f8606e9?auto=format&fit=crop&q=80", TimeStart: 2100, TimeEnd: 2230},
		{ID: 3, Name: "Kendrick Lamar", Genre: "Hip Hop", Image: "https://images.unsplash.com/photo-1621360841013-c768371e93cf?auto=format&fit=crop&q=80", TimeStart: 2230, TimeEnd: 2359},
		{ID: 4, Name: "Tame Impala", Genre: "Psychedelic", Image: "https://images.unsplash.com/photo-1514525253440-b39345208668?auto=format&fit=crop&q=80", TimeStart: 1800, TimeEnd: 1900},
		{ID: 5, Name: "Lizzo", Genre: "Pop", Image: "https://images.unsplash.com/photo-1516280440614-6697288d5d38?auto=format&fit=crop&q=80"},
	}
}
