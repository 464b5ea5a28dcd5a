// Package assist launches an external command-line assistant when reported
// stress crosses the configured threshold. It observes tracker level
// transitions; failures here are logged and never propagate back into
// tracker state.
package assist

import (
	"log"
	"sync"
	"time"

	"github.com/strain-dev/strain/internal/config"
	"github.com/strain-dev/strain/internal/tracker"
)

// Notifier is the single level-change subscriber wired to the tracker.
type Notifier struct {
	enabled   bool
	command   string
	args      []string
	minLevel  tracker.Level
	cooldown  time.Duration
	signalDir string

	mu         sync.Mutex
	lastLaunch time.Time

	// Injection points for tests.
	now       func() time.Time
	launch    func(command string, args []string) error
	isRunning func(command string) bool
	writeSig  func(dir string, sig Signal) (string, error)
}

// NewNotifier builds a notifier from config. The zero cooldown disables
// rate limiting.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		enabled:   cfg.Assist.Enabled,
		command:   cfg.Assist.Command,
		args:      cfg.Assist.Args,
		minLevel:  cfg.AssistMinLevel(),
		cooldown:  cfg.Assist.Cooldown,
		signalDir: cfg.Assist.SignalDir,
		now:       time.Now,
		launch:    launchDetached,
		isRunning: commandRunning,
		writeSig:  WriteSignal,
	}
}

// LevelChanged implements the tracker's level-change observer contract.
// It fires only on upward crossings of the threshold: a transition from a
// below-threshold level to an at-or-above-threshold one.
func (n *Notifier) LevelChanged(newLevel, oldLevel tracker.Level) {
	if !n.enabled {
		return
	}
	if newLevel < n.minLevel || oldLevel >= n.minLevel {
		return
	}

	n.mu.Lock()
	now := n.now()
	if n.cooldown > 0 && !n.lastLaunch.IsZero() && now.Sub(n.lastLaunch) < n.cooldown {
		n.mu.Unlock()
		log.Printf("assist: %s -> %s within cooldown, skipping", oldLevel, newLevel)
		return
	}
	n.lastLaunch = now
	n.mu.Unlock()

	if n.signalDir != "" {
		path, err := n.writeSig(n.signalDir, Signal{
			Level:     newLevel,
			Previous:  oldLevel,
			Timestamp: now,
		})
		if err != nil {
			log.Printf("assist: signal write failed: %v", err)
		} else {
			log.Printf("assist: signal written to %s", path)
		}
	}

	if n.isRunning(n.command) {
		log.Printf("assist: %s already running, not launching again", n.command)
		return
	}

	log.Printf("assist: stress %s, launching %s", newLevel, n.command)
	if err := n.launch(n.command, n.args); err != nil {
		log.Printf("assist: launch failed: %v", err)
	}
}
