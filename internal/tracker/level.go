package tracker

import (
	"encoding/json"
	"fmt"
)

// Level is the three-point ordinal stress scale. The ordering is
// significant: thresholds (e.g. the assist trigger) compare levels directly.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

var levelNames = map[Level]string{
	LevelLow:    "low",
	LevelMedium: "medium",
	LevelHigh:   "high",
}

var levelFromName = map[string]Level{
	"low":    LevelLow,
	"medium": LevelMedium,
	"high":   LevelHigh,
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := levelFromName[s]; ok {
		*l = v
	}
	return nil
}

// ParseLevel converts user-supplied text (CLI arguments, API payloads)
// into a Level.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelFromName[s]; ok {
		return l, nil
	}
	return LevelLow, fmt.Errorf("unknown stress level %q (want low, medium, or high)", s)
}
