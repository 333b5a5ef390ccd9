package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/qr-event/checkin/internal/models"
)

const (
	// DefaultActivityChannel is the Redis channel activity events are mirrored to.
	DefaultActivityChannel = "checkin:activity"
	publishTimeout         = 5 * time.Second
)

// redisPayload is the message published to Redis for external consumers (dashboards, signage).
type redisPayload struct {
	Event   string               `json:"event"`
	EventID string               `json:"event_id"`
	Data    models.ActivityEvent `json:"data"`
	At      int64                `json:"at"`
}

// Publisher is the subset of the go-redis client used to mirror events.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher mirrors activity events to a Redis pub/sub channel.
type RedisPublisher struct {
	client  Publisher
	channel string
	eventID string
	logger  *zap.Logger
}

// NewRedisPublisher creates a Redis mirror for activity events of eventID.
func NewRedisPublisher(client Publisher, channel, eventID string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if channel == "" {
		channel = DefaultActivityChannel
	}
	return &RedisPublisher{client: client, channel: channel, eventID: eventID, logger: logger}
}

// Publish sends one activity event to the channel.
func (r *RedisPublisher) Publish(ctx context.Context, event models.ActivityEvent) error {
	body, err := json.Marshal(redisPayload{Event: EventActivity, EventID: r.eventID, Data: event, At: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// NotifyActivity publishes event and logs failures; check-in never depends on Redis.
func (r *RedisPublisher) NotifyActivity(ctx context.Context, event models.ActivityEvent) {
	if err := r.Publish(ctx, event); err != nil {
		r.logger.Warn("activity mirror failed", zap.String("student_id", event.ParticipantID), zap.Error(err))
	}
}
