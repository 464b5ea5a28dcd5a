package tracker

import "time"

// Entry is a single timestamped stress observation. Entries are immutable
// once recorded; the tracker only ever appends them.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Note      string    `json:"note,omitempty"`
}
