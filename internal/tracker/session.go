package tracker

import (
	"math"
	"time"
)

// Session is one contiguous interval of tracked coding activity. A session
// is open (Active) from StartedAt until it is ended explicitly, displaced by
// a newer session, or auto-closed by the inactivity timeout.
type Session struct {
	ID              string     `json:"id"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	DurationMinutes int        `json:"durationMinutes"` // defined only once closed
	Entries         []Entry    `json:"entries"`
	Active          bool       `json:"active"`
}

// Clone returns a deep copy of the Session, duplicating pointer and slice
// fields so the copy can be retained independently of the original.
func (s *Session) Clone() *Session {
	c := *s
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	if len(s.Entries) > 0 {
		c.Entries = make([]Entry, len(s.Entries))
		copy(c.Entries, s.Entries)
	}
	return &c
}

// close marks the session terminal at the given instant and fixes its
// duration. Closing an already-closed session is a no-op.
func (s *Session) close(now time.Time) {
	if !s.Active {
		return
	}
	end := now
	s.EndedAt = &end
	s.DurationMinutes = wholeMinutes(end.Sub(s.StartedAt))
	s.Active = false
}

// wholeMinutes rounds a duration to the nearest whole minute.
func wholeMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}
