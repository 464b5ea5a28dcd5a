package assist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strain-dev/strain/internal/tracker"
)

// Signal is the hand-off payload dropped into the signal directory for the
// assistant process to pick up.
type Signal struct {
	Level     tracker.Level `json:"level"`
	Previous  tracker.Level `json:"previous"`
	Timestamp time.Time     `json:"timestamp"`
}

// WriteSignal atomically writes a signal file (tmp + rename) and returns its
// path. The directory is created if missing.
func WriteSignal(dir string, sig Signal) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create signal dir: %w", err)
	}

	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("signal-%d.json", sig.Timestamp.UnixMilli()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}
