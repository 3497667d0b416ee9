package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minSubscriberBackoff = time.Second
	maxSubscriberBackoff = 30 * time.Second
)

// RecordConn is the minimal interface our WebSocket implementation must satisfy.
type RecordConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// hubConn serializes writes to one connection.
type hubConn struct {
	conn RecordConn
	mu   sync.Mutex
}

func (c *hubConn) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// RecordHub is a per-instance registry of open record feeds. A single Redis
// pattern subscription feeds every local connection of every user.
type RecordHub struct {
	client *redis.Client

	mu    sync.RWMutex
	conns map[uuid.UUID]map[*hubConn]struct{}

	startOnce sync.Once
}

func NewRecordHub(client *redis.Client) *RecordHub {
	return &RecordHub{
		client: client,
		conns:  make(map[uuid.UUID]map[*hubConn]struct{}),
	}
}

// Register adds a connection for userID and returns the function removing it.
func (h *RecordHub) Register(userID uuid.UUID, conn RecordConn) func() {
	hc := &hubConn{conn: conn}

	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*hubConn]struct{})
	}
	h.conns[userID][hc] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.conns[userID], hc)
		if len(h.conns[userID]) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Connections reports how many feeds userID has open on this instance.
func (h *RecordHub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Deliver sends ev to every local connection of userID and returns how many
// writes succeeded.
func (h *RecordHub) Deliver(userID uuid.UUID, ev RecordEvent) int {
	h.mu.RLock()
	targets := make([]*hubConn, 0, len(h.conns[userID]))
	for hc := range h.conns[userID] {
		targets = append(targets, hc)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, hc := range targets {
		if err := hc.send(ev); err != nil {
			logger.Debug("error writing record event to websocket", "user_id", userID, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Start launches the shared Redis listener once per hub.
func (h *RecordHub) Start(ctx context.Context) {
	h.startOnce.Do(func() {
		go h.run(ctx)
	})
}

func (h *RecordHub) run(ctx context.Context) {
	if h.client == nil {
		logger.Warn("Redis client not initialized; record subscriber not started")
		return
	}

	backoff := minSubscriberBackoff
	for ctx.Err() == nil {
		err := h.listen(ctx, func() { backoff = minSubscriberBackoff })
		if ctx.Err() != nil {
			return
		}
		logger.Warn("Redis record subscriber error", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

// listen consumes messages until the subscription fails.
func (h *RecordHub) listen(ctx context.Context, onMessage func()) error {
	pubsub := h.client.PSubscribe(ctx, RecordChannelPrefix+"*")
	defer pubsub.Close()

	logger.Info("✅ Record Redis subscriber started", "pattern", RecordChannelPrefix+"*")

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		onMessage()
		h.dispatch(msg.Channel, msg.Payload)
	}
}

func (h *RecordHub) dispatch(channel, payload string) {
	userID, err := uuid.Parse(strings.TrimPrefix(channel, RecordChannelPrefix))
	if err != nil {
		logger.Warn("record event on unexpected channel", "channel", channel)
		return
	}

	var ev RecordEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		logger.Warn("failed to unmarshal record event", "error", err)
		return
	}
	h.Deliver(userID, ev)
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxSubscriberBackoff {
		return maxSubscriberBackoff
	}
	return d
}
