// Package client talks to the strain daemon: typed REST calls plus a
// reconnecting WebSocket feed for the TUI.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/strain-dev/strain/internal/tracker"
)

// HTTPClient makes REST calls to the strain daemon.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:7399").
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Status fetches the full tracker snapshot.
func (c *HTTPClient) Status() (*tracker.Snapshot, error) {
	var s tracker.Snapshot
	if err := c.get("/api/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Report posts a stress observation.
func (c *HTTPClient) Report(level tracker.Level, note string) (*tracker.Entry, error) {
	body := map[string]string{"level": level.String(), "note": note}
	var entry tracker.Entry
	if err := c.post("/api/report", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// StartSession opens a new coding session.
func (c *HTTPClient) StartSession() (*tracker.Session, error) {
	var s tracker.Session
	if err := c.post("/api/session/start", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EndSession closes the active coding session, if any.
func (c *HTTPClient) EndSession() error {
	return c.post("/api/session/end", nil, nil)
}

// Clear discards all tracked history.
func (c *HTTPClient) Clear() error {
	return c.post("/api/clear", nil, nil)
}

// Stats fetches completed-session aggregates.
func (c *HTTPClient) Stats() (*tracker.Stats, error) {
	var s tracker.Stats
	if err := c.get("/api/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// TodaysEntries fetches today's entry list.
func (c *HTTPClient) TodaysEntries() ([]tracker.Entry, error) {
	var out []tracker.Entry
	if err := c.get("/api/entries/today", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TodaysSessions fetches today's session list.
func (c *HTTPClient) TodaysSessions() ([]*tracker.Session, error) {
	var out []*tracker.Session
	if err := c.get("/api/sessions/today", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s (%s)", req.Method, req.URL.Path,
			resp.Status, bytes.TrimSpace(msg))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
