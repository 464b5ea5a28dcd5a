package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/strain-dev/strain/internal/tracker"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster fans tracker state out to WebSocket clients. State pushes are
// coalesced: mutations queue a flush on a throttle timer, and a periodic
// snapshot loop keeps live durations ticking for idle consumers.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool

	trk            *tracker.Tracker
	throttle       time.Duration
	snapshotTicker *time.Ticker

	flushMu    sync.Mutex
	flushTimer *time.Timer
}

func NewBroadcaster(trk *tracker.Tracker, throttle, snapshotInterval time.Duration) *Broadcaster {
	b := &Broadcaster{
		clients:  make(map[*client]bool),
		trk:      trk,
		throttle: throttle,
	}

	b.snapshotTicker = time.NewTicker(snapshotInterval)
	go b.snapshotLoop()

	return b
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	data, _ := json.Marshal(b.snapshotMessage())
	select {
	case c.send <- data:
	default:
		// Client too slow, drop the initial snapshot
	}

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// QueueState schedules a coalesced snapshot broadcast. Back-to-back
// mutations within the throttle window produce a single message built from
// the tracker state at flush time.
func (b *Broadcaster) QueueState() {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.throttle, b.flush)
	}
}

// BroadcastLevelChange pushes a level transition immediately, ahead of any
// queued snapshot, so the assist/status surfaces react without throttle lag.
func (b *Broadcaster) BroadcastLevelChange(level, previous tracker.Level) {
	b.broadcast(WSMessage{
		Type: MsgLevelChange,
		Payload: LevelChangePayload{
			Level:     level,
			Previous:  previous,
			Timestamp: time.Now(),
		},
	})
	b.QueueState()
}

// BroadcastSessionClosed pushes a session close (explicit or timeout)
// immediately.
func (b *Broadcaster) BroadcastSessionClosed(s tracker.Session) {
	b.broadcast(WSMessage{
		Type:    MsgSessionClosed,
		Payload: SessionClosedPayload{Session: s},
	})
	b.QueueState()
}

func (b *Broadcaster) flush() {
	b.flushMu.Lock()
	b.flushTimer = nil
	b.flushMu.Unlock()

	b.broadcast(b.snapshotMessage())
}

func (b *Broadcaster) snapshotLoop() {
	for range b.snapshotTicker.C {
		b.broadcast(b.snapshotMessage())
	}
}

func (b *Broadcaster) snapshotMessage() WSMessage {
	return WSMessage{
		Type:    MsgSnapshot,
		Payload: SnapshotPayload{State: b.trk.Snapshot()},
	}
}

func (b *Broadcaster) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Client can't keep up, disconnect it
			log.Printf("ws client too slow, disconnecting")
			b.RemoveClient(c)
		}
	}
}

func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
