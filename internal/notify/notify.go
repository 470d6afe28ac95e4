// Package notify pushes stored notifications to real-time consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/helpdesk-api/internal/constants"
	"github.com/yukikurage/helpdesk-api/internal/models"
)

// Publisher delivers a notification after it has been persisted.
type Publisher interface {
	Publish(ctx context.Context, notification models.Notification) error
}

// Channel returns the pub/sub channel a user's notifications are sent on.
func Channel(userID uint64) string {
	return constants.NotificationChannelPrefix + strconv.FormatUint(userID, 10)
}

// RedisPublisher publishes notifications as JSON on a per-user redis channel.
type RedisPublisher struct {
	client redis.UniversalClient
}

// NewRedisPublisher constructs a publisher for the provided client.
func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, notification models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification %d: %w", notification.ID, err)
	}
	return nil
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Publish(context.Context, models.Notification) error { return nil }
