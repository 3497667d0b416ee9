package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType names a change to a user's records.
type EventType string

const (
	EventPromiseCreated EventType = "promise.created"
	EventPromiseUpdated EventType = "promise.updated"
	EventPromiseDeleted EventType = "promise.deleted"
	EventEntryUpserted  EventType = "entry.upserted"
	EventJournalUpdated EventType = "journal.updated"
)

// RecordChannelPrefix is followed by the user id.
const RecordChannelPrefix = "records:user:"

// RecordEvent is the payload broadcast over Redis and WebSocket.
type RecordEvent struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewRecordEvent marshals data into an event stamped now.
func NewRecordEvent(kind EventType, data interface{}) RecordEvent {
	ev := RecordEvent{Type: kind, Timestamp: time.Now().UTC()}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			ev.Data = raw
		}
	}
	return ev
}

// EventPublisher announces record changes to every instance.
type EventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, ev RecordEvent) error
}

// RedisEventPublisher publishes on records:user:<id>.
type RedisEventPublisher struct {
	client *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{client: client}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, userID uuid.UUID, ev RecordEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, RecordChannelPrefix+userID.String(), data).Err()
}
