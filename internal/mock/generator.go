// Package mock feeds the tracker a scripted stream of stress reports so the
// TUI and dashboard can be demoed without a real editor attached.
package mock

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/strain-dev/strain/internal/tracker"
	"github.com/strain-dev/strain/internal/ws"
)

var mockNotes = map[tracker.Level][]string{
	tracker.LevelLow: {
		"smooth refactor",
		"tests green",
		"",
	},
	tracker.LevelMedium: {
		"flaky CI again",
		"merge conflict in the worst file",
		"",
	},
	tracker.LevelHigh: {
		"prod incident during standup",
		"deadline moved up",
		"debugger lies",
	},
}

type Generator struct {
	trk         *tracker.Tracker
	broadcaster *ws.Broadcaster
	rng         *rand.Rand
	level       tracker.Level
}

func NewGenerator(trk *tracker.Tracker, broadcaster *ws.Broadcaster) *Generator {
	return &Generator{
		trk:         trk,
		broadcaster: broadcaster,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		level:       tracker.LevelLow,
	}
}

// Start runs the feed until the context is cancelled.
func (g *Generator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()

		log.Println("Mock generator started")
		g.step()

		for {
			select {
			case <-ctx.Done():
				log.Println("Mock generator stopped")
				return
			case <-ticker.C:
				g.step()
			}
		}
	}()
}

// step advances the scripted stress random walk by one report and
// occasionally rolls the session over.
func (g *Generator) step() {
	// One in twelve ticks ends the session; the next report reopens one,
	// exercising the implicit-start path.
	if g.rng.Intn(12) == 0 && g.trk.CurrentSession() != nil {
		g.trk.EndSession()
		if g.broadcaster != nil {
			g.broadcaster.QueueState()
		}
		return
	}

	g.level = g.nextLevel()
	notes := mockNotes[g.level]
	note := notes[g.rng.Intn(len(notes))]

	g.trk.Report(g.level, note)
	if g.broadcaster != nil {
		g.broadcaster.QueueState()
	}
}

// nextLevel random-walks one step at a time; stress doesn't teleport.
func (g *Generator) nextLevel() tracker.Level {
	switch g.rng.Intn(3) {
	case 0:
		if g.level > tracker.LevelLow {
			return g.level - 1
		}
	case 1:
		if g.level < tracker.LevelHigh {
			return g.level + 1
		}
	}
	return g.level
}
