package tracker

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced Clock. Advance moves time forward and
// fires any timers whose deadline has passed, outside the clock's own lock
// so fired callbacks may call back into the clock.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func (ft *fakeTimer) Stop() bool {
	ft.stopped = true
	return !ft.fired
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	ft := &fakeTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, ft)
	return ft
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, ft := range c.timers {
		if !ft.stopped && !ft.fired && !ft.deadline.After(c.now) {
			ft.fired = true
			due = append(due, ft)
		}
	}
	c.mu.Unlock()

	for _, ft := range due {
		ft.fn()
	}
}

var testStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

func newTestTracker() (*Tracker, *fakeClock) {
	clock := newFakeClock(testStart)
	return New(clock, DefaultIdleTimeout), clock
}

func TestNewDefaults(t *testing.T) {
	tr := New(nil, 0)
	if got := tr.CurrentLevel(); got != LevelLow {
		t.Errorf("initial level = %v, want low", got)
	}
	if got := tr.CurrentSessionDuration(); got != 0 {
		t.Errorf("initial duration = %d, want 0", got)
	}
	if tr.CurrentSession() != nil {
		t.Error("new tracker has an active session")
	}
}

func TestReportAppendsEntriesInOrder(t *testing.T) {
	tr, _ := newTestTracker()

	levels := []Level{LevelLow, LevelHigh, LevelMedium, LevelHigh}
	for i, l := range levels {
		tr.Report(l, "")
		if got := len(tr.AllEntries()); got != i+1 {
			t.Fatalf("after %d reports, entry count = %d", i+1, got)
		}
	}

	entries := tr.AllEntries()
	for i, e := range entries {
		if e.Level != levels[i] {
			t.Errorf("entry %d level = %v, want %v", i, e.Level, levels[i])
		}
	}
}

func TestReportStartsSessionImplicitly(t *testing.T) {
	tr, _ := newTestTracker()

	entry := tr.Report(LevelMedium, "deadline pressure")

	cur := tr.CurrentSession()
	if cur == nil {
		t.Fatal("no session active after Report")
	}
	if !cur.Active {
		t.Error("implicitly started session is not active")
	}
	if len(cur.Entries) != 1 || cur.Entries[0].ID != entry.ID {
		t.Errorf("session entries = %+v, want the reported entry", cur.Entries)
	}
	if entry.Note != "deadline pressure" {
		t.Errorf("entry note = %q", entry.Note)
	}
}

func TestSingleActiveSession(t *testing.T) {
	tr, _ := newTestTracker()

	tr.StartSession()
	tr.Report(LevelLow, "")
	tr.StartSession()
	tr.Report(LevelHigh, "")
	tr.StartSession()
	tr.EndSession()
	tr.Report(LevelMedium, "")

	active := 0
	for _, s := range tr.AllSessions() {
		if s.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active session count = %d, want 1", active)
	}
	if got := len(tr.AllSessions()); got != 4 {
		t.Errorf("session count = %d, want 4", got)
	}
}

func TestStartSessionDisplacesActive(t *testing.T) {
	tr, clock := newTestTracker()

	tr.StartSession()
	clock.Advance(10 * time.Minute)
	tr.StartSession()

	sessions := tr.AllSessions()
	if len(sessions) != 2 {
		t.Fatalf("session count = %d, want 2", len(sessions))
	}
	first := sessions[0]
	if first.Active {
		t.Error("displaced session still active")
	}
	if first.DurationMinutes != 10 {
		t.Errorf("displaced session duration = %d, want 10", first.DurationMinutes)
	}
	if !sessions[1].Active {
		t.Error("new session not active")
	}
}

func TestEndSessionDuration(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"exact", 15 * time.Minute, 15},
		{"rounds down", 7*time.Minute + 20*time.Second, 7},
		{"rounds up", 7*time.Minute + 40*time.Second, 8},
		{"sub-minute", 20 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, clock := newTestTracker()
			tr.StartSession()
			clock.Advance(tt.elapsed)
			tr.EndSession()

			s := tr.AllSessions()[0]
			if s.DurationMinutes != tt.want {
				t.Errorf("duration = %d, want %d", s.DurationMinutes, tt.want)
			}
			if s.Active {
				t.Error("session still active after EndSession")
			}
			if s.EndedAt == nil {
				t.Error("EndedAt not set")
			}
		})
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	tr, clock := newTestTracker()

	tr.StartSession()
	clock.Advance(5 * time.Minute)
	tr.EndSession()

	clock.Advance(20 * time.Minute)
	tr.EndSession() // no-op: nothing active

	s := tr.AllSessions()[0]
	if s.DurationMinutes != 5 {
		t.Errorf("duration changed by second EndSession: %d, want 5", s.DurationMinutes)
	}
}

func TestCurrentSessionDuration(t *testing.T) {
	tr, clock := newTestTracker()

	if got := tr.CurrentSessionDuration(); got != 0 {
		t.Errorf("duration with no session = %d, want 0", got)
	}

	tr.StartSession()
	clock.Advance(12 * time.Minute)
	if got := tr.CurrentSessionDuration(); got != 12 {
		t.Errorf("live duration = %d, want 12", got)
	}
}

func TestSessionStats(t *testing.T) {
	tr, clock := newTestTracker()

	if got := tr.SessionStats(); got != (Stats{}) {
		t.Errorf("stats with no sessions = %+v, want zeros", got)
	}

	for _, minutes := range []int{10, 20, 30} {
		tr.StartSession()
		clock.Advance(time.Duration(minutes) * time.Minute)
		tr.EndSession()
	}

	got := tr.SessionStats()
	want := Stats{AverageMinutes: 20, Total: 3, LongestMinutes: 30}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestSessionStatsIgnoresOpenAndZero(t *testing.T) {
	tr, clock := newTestTracker()

	tr.StartSession()
	tr.EndSession() // zero-duration, excluded

	tr.StartSession()
	clock.Advance(10 * time.Minute)
	tr.EndSession()

	tr.StartSession() // open, excluded
	clock.Advance(40 * time.Second)

	got := tr.SessionStats()
	want := Stats{AverageMinutes: 10, Total: 1, LongestMinutes: 10}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestTotalCodingTimeToday(t *testing.T) {
	tr, clock := newTestTracker()

	tr.StartSession()
	clock.Advance(15 * time.Minute)
	tr.EndSession()

	tr.StartSession()
	clock.Advance(5 * time.Minute)

	if got := tr.TotalCodingTimeToday(); got != 20 {
		t.Errorf("total today = %d, want 20", got)
	}
}

func TestTodayFiltersOutYesterday(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 3, 9, 23, 0, 0, 0, time.Local))
	tr := New(clock, DefaultIdleTimeout)

	tr.Report(LevelHigh, "late night")
	tr.EndSession()

	// Cross midnight into the next day.
	clock.Advance(10 * time.Hour)
	tr.Report(LevelLow, "fresh start")

	entries := tr.TodaysEntries()
	if len(entries) != 1 || entries[0].Note != "fresh start" {
		t.Errorf("today's entries = %+v, want only the morning entry", entries)
	}
	sessions := tr.TodaysSessions()
	if len(sessions) != 1 || !sessions[0].Active {
		t.Errorf("today's sessions = %d, want only the morning session", len(sessions))
	}
	if got := len(tr.AllEntries()); got != 2 {
		t.Errorf("flat entry log = %d, want 2", got)
	}
}

func TestLevelChangeNotification(t *testing.T) {
	tr, _ := newTestTracker()

	type change struct{ newLevel, oldLevel Level }
	var changes []change
	tr.SetLevelChangeFunc(func(newLevel, oldLevel Level) {
		changes = append(changes, change{newLevel, oldLevel})
	})

	tr.Report(LevelHigh, "")
	if len(changes) != 1 || changes[0] != (change{LevelHigh, LevelLow}) {
		t.Fatalf("changes after low->high = %+v, want one (high, low)", changes)
	}

	tr.Report(LevelHigh, "")
	if len(changes) != 1 {
		t.Errorf("repeated level fired observer: %d changes", len(changes))
	}

	tr.Report(LevelMedium, "")
	if len(changes) != 2 || changes[1] != (change{LevelMedium, LevelHigh}) {
		t.Errorf("changes = %+v, want (medium, high) appended", changes)
	}
}

func TestLevelChangeObserverSeesCommittedLevel(t *testing.T) {
	tr, _ := newTestTracker()

	var seen Level
	tr.SetLevelChangeFunc(func(newLevel, oldLevel Level) {
		seen = tr.CurrentLevel()
	})

	tr.Report(LevelHigh, "")
	if seen != LevelHigh {
		t.Errorf("observer saw level %v, want high (update-then-notify)", seen)
	}
}

func TestLevelChangeObserverPanicRecovered(t *testing.T) {
	tr, _ := newTestTracker()

	tr.SetLevelChangeFunc(func(newLevel, oldLevel Level) {
		panic("observer exploded")
	})

	tr.Report(LevelHigh, "")

	if got := tr.CurrentLevel(); got != LevelHigh {
		t.Errorf("level = %v after observer panic, want high", got)
	}
	if got := len(tr.AllEntries()); got != 1 {
		t.Errorf("entry count = %d after observer panic, want 1", got)
	}
}

func TestSetLevelChangeFuncReplaces(t *testing.T) {
	tr, _ := newTestTracker()

	firstCalls, secondCalls := 0, 0
	tr.SetLevelChangeFunc(func(Level, Level) { firstCalls++ })
	tr.SetLevelChangeFunc(func(Level, Level) { secondCalls++ })

	tr.Report(LevelHigh, "")
	if firstCalls != 0 || secondCalls != 1 {
		t.Errorf("calls = (%d, %d), want replaced observer only", firstCalls, secondCalls)
	}
}

func TestIdleTimeoutAutoCloses(t *testing.T) {
	tr, clock := newTestTracker()

	var closed []Session
	tr.SetSessionClosedFunc(func(s Session) { closed = append(closed, s) })

	tr.Report(LevelMedium, "")
	clock.Advance(DefaultIdleTimeout)

	cur := tr.CurrentSession()
	if cur != nil {
		t.Fatal("session still active after idle timeout")
	}
	sessions := tr.AllSessions()
	if len(sessions) != 1 || sessions[0].Active {
		t.Fatal("auto-closed session still marked active")
	}
	if sessions[0].DurationMinutes != 30 {
		t.Errorf("auto-closed duration = %d, want 30", sessions[0].DurationMinutes)
	}
	if len(closed) != 1 {
		t.Errorf("close observer fired %d times, want 1", len(closed))
	}
}

func TestIdleTimerResetByActivity(t *testing.T) {
	tr, clock := newTestTracker()

	tr.Report(LevelLow, "")
	clock.Advance(20 * time.Minute)
	tr.Report(LevelLow, "") // resets the window

	clock.Advance(15 * time.Minute) // 35m total, 15m since last report
	if tr.CurrentSession() == nil {
		t.Fatal("session closed despite recent activity")
	}

	clock.Advance(15 * time.Minute) // 30m since last report
	if tr.CurrentSession() != nil {
		t.Fatal("session not closed 30m after last activity")
	}
}

func TestStartSessionCancelsStaleTimer(t *testing.T) {
	tr, clock := newTestTracker()

	tr.Report(LevelLow, "")
	clock.Advance(29 * time.Minute)
	tr.StartSession()

	// The first schedule's window has long passed; only the reset one counts.
	clock.Advance(2 * time.Minute)
	if tr.CurrentSession() == nil {
		t.Fatal("stale timeout closed the new session")
	}
	clock.Advance(29 * time.Minute)
	if tr.CurrentSession() != nil {
		t.Fatal("new session not closed after its own window elapsed")
	}
}

func TestClearHistory(t *testing.T) {
	tr, clock := newTestTracker()

	var closes int
	tr.SetSessionClosedFunc(func(Session) { closes++ })

	tr.Report(LevelHigh, "crunch")
	tr.Report(LevelMedium, "")
	tr.ClearHistory()

	if got := tr.CurrentLevel(); got != LevelLow {
		t.Errorf("level after clear = %v, want low", got)
	}
	if got := len(tr.AllEntries()); got != 0 {
		t.Errorf("entries after clear = %d, want 0", got)
	}
	if got := len(tr.TodaysSessions()); got != 0 {
		t.Errorf("today's sessions after clear = %d, want 0", got)
	}
	if closes != 0 {
		t.Errorf("close observer fired %d times during clear, want 0", closes)
	}

	// The pending timeout was cancelled: waiting past the window must not
	// resurrect or close anything.
	clock.Advance(2 * DefaultIdleTimeout)
	if got := len(tr.AllSessions()); got != 0 {
		t.Errorf("sessions after clear+wait = %d, want 0", got)
	}
}

func TestSnapshot(t *testing.T) {
	tr, clock := newTestTracker()

	tr.StartSession()
	clock.Advance(15 * time.Minute)
	tr.EndSession()
	tr.Report(LevelHigh, "review panic")
	clock.Advance(5 * time.Minute)

	snap := tr.Snapshot()
	if snap.Level != LevelHigh {
		t.Errorf("snapshot level = %v, want high", snap.Level)
	}
	if snap.CurrentSession == nil || !snap.CurrentSession.Active {
		t.Fatal("snapshot missing active session")
	}
	if snap.CurrentDurationMinutes != 5 {
		t.Errorf("snapshot live duration = %d, want 5", snap.CurrentDurationMinutes)
	}
	if snap.TodayTotalMinutes != 20 {
		t.Errorf("snapshot today total = %d, want 20", snap.TodayTotalMinutes)
	}
	if len(snap.TodaysEntries) != 1 || len(snap.TodaysSessions) != 2 {
		t.Errorf("snapshot today = %d entries / %d sessions, want 1/2",
			len(snap.TodaysEntries), len(snap.TodaysSessions))
	}

	// Snapshot must be detached from tracker state.
	snap.CurrentSession.Entries[0].Note = "mutated"
	if tr.CurrentSession().Entries[0].Note != "review panic" {
		t.Error("snapshot mutation leaked into tracker")
	}
}
