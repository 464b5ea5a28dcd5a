package ws

import (
	"time"

	"github.com/strain-dev/strain/internal/tracker"
)

type MessageType string

const (
	MsgSnapshot      MessageType = "snapshot"
	MsgLevelChange   MessageType = "level_change"
	MsgSessionClosed MessageType = "session_closed"
	MsgError         MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// SnapshotPayload carries the full tracker state. Sent on connect, on a
// throttled timer after mutations, and periodically so passive consumers
// (status bar, dashboard) see live durations tick without polling.
type SnapshotPayload struct {
	State tracker.Snapshot `json:"state"`
}

type LevelChangePayload struct {
	Level     tracker.Level `json:"level"`
	Previous  tracker.Level `json:"previous"`
	Timestamp time.Time     `json:"timestamp"`
}

type SessionClosedPayload struct {
	Session tracker.Session `json:"session"`
}
