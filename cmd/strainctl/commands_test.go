package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestDaemon serves canned responses for the endpoints strainctl hits.
func newTestDaemon(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/report", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        "e1",
			"timestamp": "2025-03-10T09:05:00Z",
			"level":     body["level"],
			"note":      body["note"],
		})
	})
	mux.HandleFunc("/api/session/start", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":        "s1",
			"startedAt": "2025-03-10T09:00:00Z",
			"active":    true,
		})
	})
	mux.HandleFunc("/api/session/end", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/clear", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"level":                  "high",
			"currentSession":         map[string]interface{}{"id": "s1", "startedAt": "2025-03-10T09:00:00Z", "active": true},
			"currentDurationMinutes": 25,
			"todayTotalMinutes":      40,
			"stats":                  map[string]int{"averageMinutes": 0, "total": 0, "longestMinutes": 0},
		})
	})
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{
			"averageMinutes": 20, "total": 3, "longestMinutes": 35,
		})
	})
	mux.HandleFunc("/api/sessions/today", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":              "s1",
				"startedAt":       "2025-03-10T09:00:00Z",
				"durationMinutes": 25,
				"entries": []map[string]interface{}{
					{"id": "e1", "timestamp": "2025-03-10T09:05:00Z", "level": "medium", "note": "standup ran long"},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestReportCommand(t *testing.T) {
	srv := newTestDaemon(t)

	out, err := runCommand(t, srv, "report", "high", "-n", "deploy broke")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Recorded high") {
		t.Errorf("output = %q, want recorded confirmation", out)
	}
}

func TestReportRejectsUnknownLevel(t *testing.T) {
	srv := newTestDaemon(t)

	if _, err := runCommand(t, srv, "report", "panicking"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSessionCommands(t *testing.T) {
	srv := newTestDaemon(t)

	out, err := runCommand(t, srv, "start")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out, "Session started") {
		t.Errorf("start output = %q", out)
	}

	out, err = runCommand(t, srv, "end")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !strings.Contains(out, "Session ended") {
		t.Errorf("end output = %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	srv := newTestDaemon(t)

	out, err := runCommand(t, srv, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Stress level: high", "Active session: 25 min", "Coding time today: 40 min"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCommand(t *testing.T) {
	srv := newTestDaemon(t)

	out, err := runCommand(t, srv, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Completed sessions: 3", "Average length:     20 min", "Longest session:    35 min"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestTodayCommand(t *testing.T) {
	srv := newTestDaemon(t)

	out, err := runCommand(t, srv, "today")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	for _, want := range []string{"Session", "25 min", "medium", "standup ran long"} {
		if !strings.Contains(out, want) {
			t.Errorf("today output missing %q:\n%s", want, out)
		}
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	srv := newTestDaemon(t)

	if _, err := runCommand(t, srv, "clear"); err == nil {
		t.Fatal("clear without --yes should fail")
	}

	out, err := runCommand(t, srv, "clear", "--yes")
	if err != nil {
		t.Fatalf("clear --yes: %v", err)
	}
	if !strings.Contains(out, "History cleared") {
		t.Errorf("clear output = %q", out)
	}
}
