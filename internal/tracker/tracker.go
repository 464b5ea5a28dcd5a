// Package tracker owns the in-memory stress and coding-session state: the
// current stress level, the chronological entry log, the session list with
// at most one open session, and the inactivity timeout that auto-closes an
// abandoned session. Everything here is ephemeral; nothing survives a
// daemon restart.
package tracker

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout closes the active session after this much time with no
// reports and no explicit session activity.
const DefaultIdleTimeout = 30 * time.Minute

// Stats aggregates completed sessions (positive computed duration only).
type Stats struct {
	AverageMinutes int `json:"averageMinutes"`
	Total          int `json:"total"`
	LongestMinutes int `json:"longestMinutes"`
}

// Snapshot is a self-contained copy of the tracker state used for WebSocket
// broadcasts and HTTP reads. Safe to retain and marshal concurrently.
type Snapshot struct {
	Level                  Level      `json:"level"`
	CurrentSession         *Session   `json:"currentSession,omitempty"`
	CurrentDurationMinutes int        `json:"currentDurationMinutes"`
	TodayTotalMinutes      int        `json:"todayTotalMinutes"`
	TodaysEntries          []Entry    `json:"todaysEntries"`
	TodaysSessions         []*Session `json:"todaysSessions"`
	Stats                  Stats      `json:"stats"`
	Timestamp              time.Time  `json:"timestamp"`
}

// Tracker is the session/entry state machine. All methods are safe for
// concurrent use; HTTP handlers, the inactivity timer, and the mock
// generator all share one instance.
//
// On a level transition the tracker updates its own state first and then
// invokes the registered observer (update-then-notify): an observer that
// reads back CurrentLevel always sees the value it was notified about. The
// previous level is only available through the observer's second argument.
type Tracker struct {
	mu          sync.Mutex
	clock       Clock
	idleTimeout time.Duration

	level    Level
	entries  []Entry
	sessions []*Session
	current  *Session // aliases the tail of sessions while a session is open

	idleTimer Timer
	timerGen  uint64 // invalidates timer callbacks from cancelled schedules

	onLevelChange   func(newLevel, oldLevel Level)
	onSessionClosed func(Session)
}

// New creates a tracker. A nil clock selects the system clock; a
// non-positive idleTimeout selects DefaultIdleTimeout.
func New(clock Clock, idleTimeout time.Duration) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Tracker{
		clock:       clock,
		idleTimeout: idleTimeout,
		level:       LevelLow,
	}
}

// SetLevelChangeFunc registers the single level-change observer, replacing
// any previous one. The observer runs synchronously after the tracker has
// committed the new level; a panicking observer is recovered and cannot
// corrupt tracker state.
func (t *Tracker) SetLevelChangeFunc(fn func(newLevel, oldLevel Level)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLevelChange = fn
}

// SetSessionClosedFunc registers the single session-close observer. It fires
// whenever an open session closes (explicit end, displacement by a new
// session, or inactivity timeout) but not when history is cleared.
func (t *Tracker) SetSessionClosedFunc(fn func(Session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSessionClosed = fn
}

// Report records a stress observation: it ensures a session is open,
// appends the entry to both the flat log and the open session, resets the
// inactivity timer, and sets the current level to the reported value. If the
// level changed, the registered observer is invoked with (new, previous).
func (t *Tracker) Report(level Level, note string) Entry {
	t.mu.Lock()
	if t.current == nil {
		t.startSessionLocked()
	}
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: t.clock.Now(),
		Level:     level,
		Note:      note,
	}
	t.entries = append(t.entries, entry)
	t.current.Entries = append(t.current.Entries, entry)
	t.resetIdleTimerLocked()

	oldLevel := t.level
	t.level = level
	fn := t.onLevelChange
	t.mu.Unlock()

	if level != oldLevel && fn != nil {
		notifyLevelChange(fn, level, oldLevel)
	}
	return entry
}

func notifyLevelChange(fn func(Level, Level), newLevel, oldLevel Level) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("level change observer panic: %v", r)
		}
	}()
	fn(newLevel, oldLevel)
}

// CurrentLevel returns the most recently reported stress level.
func (t *Tracker) CurrentLevel() Level {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

// StartSession opens a new session, first closing any session already open.
// Resets the inactivity timer.
func (t *Tracker) StartSession() *Session {
	t.mu.Lock()
	closed := t.closeCurrentLocked()
	s := t.startSessionLocked()
	t.resetIdleTimerLocked()
	clone := s.Clone()
	t.mu.Unlock()

	t.notifySessionClosed(closed)
	return clone
}

// startSessionLocked opens a fresh session and makes it current.
func (t *Tracker) startSessionLocked() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: t.clock.Now(),
		Entries:   []Entry{},
		Active:    true,
	}
	t.sessions = append(t.sessions, s)
	t.current = s
	return s
}

// EndSession closes the active session and cancels the inactivity timer.
// No-op when no session is active.
func (t *Tracker) EndSession() {
	t.mu.Lock()
	closed := t.closeCurrentLocked()
	t.cancelIdleTimerLocked()
	t.mu.Unlock()

	t.notifySessionClosed(closed)
}

// closeCurrentLocked closes the open session, if any, and returns a clone of
// it for observer notification outside the lock.
func (t *Tracker) closeCurrentLocked() *Session {
	if t.current == nil {
		return nil
	}
	s := t.current
	s.close(t.clock.Now())
	t.current = nil
	return s.Clone()
}

func (t *Tracker) notifySessionClosed(closed *Session) {
	if closed == nil {
		return
	}
	t.mu.Lock()
	fn := t.onSessionClosed
	t.mu.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("session close observer panic: %v", r)
		}
	}()
	fn(*closed)
}

// CurrentSession returns a copy of the active session, or nil.
func (t *Tracker) CurrentSession() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	return t.current.Clone()
}

// CurrentSessionDuration returns the live whole-minute duration of the
// active session, or 0 when none is active. Always recomputed, never cached.
func (t *Tracker) CurrentSessionDuration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDurationLocked()
}

func (t *Tracker) currentDurationLocked() int {
	if t.current == nil {
		return 0
	}
	return wholeMinutes(t.clock.Now().Sub(t.current.StartedAt))
}

// AllEntries returns the flat entry log in insertion order.
func (t *Tracker) AllEntries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// AllSessions returns copies of every session in insertion order.
func (t *Tracker) AllSessions() []*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s.Clone())
	}
	return out
}

// TodaysEntries returns entries recorded on or after local midnight, in
// insertion order.
func (t *Tracker) TodaysEntries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.todaysEntriesLocked()
}

func (t *Tracker) todaysEntriesLocked() []Entry {
	cutoff := midnight(t.clock.Now())
	out := []Entry{}
	for _, e := range t.entries {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// TodaysSessions returns copies of sessions started on or after local
// midnight, in insertion order.
func (t *Tracker) TodaysSessions() []*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.todaysSessionsLocked()
}

func (t *Tracker) todaysSessionsLocked() []*Session {
	cutoff := midnight(t.clock.Now())
	out := []*Session{}
	for _, s := range t.sessions {
		if !s.StartedAt.Before(cutoff) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// TotalCodingTimeToday sums today's session durations in whole minutes,
// using the live duration for the currently open session.
func (t *Tracker) TotalCodingTimeToday() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalTodayLocked()
}

func (t *Tracker) totalTodayLocked() int {
	cutoff := midnight(t.clock.Now())
	total := 0
	for _, s := range t.sessions {
		if s.StartedAt.Before(cutoff) {
			continue
		}
		if s.Active {
			total += wholeMinutes(t.clock.Now().Sub(s.StartedAt))
		} else {
			total += s.DurationMinutes
		}
	}
	return total
}

// SessionStats aggregates completed sessions with a positive duration:
// rounded average, count, and longest. All zeros when none exist.
func (t *Tracker) SessionStats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked()
}

func (t *Tracker) statsLocked() Stats {
	sum, count, longest := 0, 0, 0
	for _, s := range t.sessions {
		if s.Active || s.DurationMinutes <= 0 {
			continue
		}
		sum += s.DurationMinutes
		count++
		if s.DurationMinutes > longest {
			longest = s.DurationMinutes
		}
	}
	if count == 0 {
		return Stats{}
	}
	return Stats{
		AverageMinutes: int(math.Round(float64(sum) / float64(count))),
		Total:          count,
		LongestMinutes: longest,
	}
}

// ClearHistory discards all entries and sessions, resets the level to low,
// and cancels any pending inactivity timer. An open session is closed first
// (its duration is computed) but discarded with the rest.
func (t *Tracker) ClearHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.close(t.clock.Now())
		t.current = nil
	}
	t.cancelIdleTimerLocked()
	t.entries = nil
	t.sessions = nil
	t.level = LevelLow
}

// Snapshot builds a consistent copy of the externally visible state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := Snapshot{
		Level:                  t.level,
		CurrentDurationMinutes: t.currentDurationLocked(),
		TodayTotalMinutes:      t.totalTodayLocked(),
		TodaysEntries:          t.todaysEntriesLocked(),
		TodaysSessions:         t.todaysSessionsLocked(),
		Stats:                  t.statsLocked(),
		Timestamp:              t.clock.Now(),
	}
	if t.current != nil {
		snap.CurrentSession = t.current.Clone()
	}
	return snap
}

// resetIdleTimerLocked cancels any pending timeout and schedules a new one.
// At most one timer is outstanding at any time.
func (t *Tracker) resetIdleTimerLocked() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.timerGen++
	gen := t.timerGen
	t.idleTimer = t.clock.AfterFunc(t.idleTimeout, func() {
		t.handleIdleTimeout(gen)
	})
}

// cancelIdleTimerLocked stops the pending timeout and invalidates any
// callback already in flight.
func (t *Tracker) cancelIdleTimerLocked() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}
	t.timerGen++
}

// handleIdleTimeout fires when the inactivity window elapses with no
// intervening activity. A stale generation means the schedule that created
// this callback was cancelled or superseded; closing on it would end a
// newer session.
func (t *Tracker) handleIdleTimeout(gen uint64) {
	t.mu.Lock()
	if gen != t.timerGen || t.current == nil {
		t.mu.Unlock()
		return
	}
	log.Printf("session %s idle for %s, auto-closing", t.current.ID, t.idleTimeout)
	closed := t.closeCurrentLocked()
	t.idleTimer = nil
	t.mu.Unlock()

	t.notifySessionClosed(closed)
}

// midnight returns 00:00:00 of the given instant's day in its location.
func midnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
