package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Domain event types published on the channel.
const (
	EventSubmitted = "event_submitted"
	EventApproved  = "event_approved"
	EventDenied    = "event_denied"
	RSVPCreated    = "rsvp_created"
	RSVPUpdated    = "rsvp_updated"
	RSVPCanceled   = "rsvp_canceled"
	EventSaved     = "event_saved"
	EventUnsaved   = "event_unsaved"
)

// Message is the envelope written to the channel.
type Message struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// NewMessage wraps payload in a Message with a fresh id.
func NewMessage(eventType string, payload interface{}) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RedisPublisher publishes messages on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher connects to url and verifies the connection.
func NewRedisPublisher(ctx context.Context, url, channel string, logger *zap.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger.Named("notify"),
	}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(NewMessage(eventType, payload))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	p.logger.Debug("Published domain event", zap.String("type", eventType), zap.String("channel", p.channel))
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Nop discards every message. It is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }
