package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the go-redis surface the relay uses; *redis.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRelay forwards workflow events to a Redis pub/sub channel.
type RedisRelay struct {
	client  Publisher
	channel string
	logger  *zap.Logger
}

// NewRedisRelay creates a relay publishing on channel.
func NewRedisRelay(client Publisher, channel string, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, logger: logger}
}

// Register subscribes the relay to every workflow event.
func (r *RedisRelay) Register(dispatcher Dispatcher) {
	if r == nil || r.client == nil || dispatcher == nil {
		return
	}
	SubscribeAll(dispatcher, r.Handle)
}

// Handle publishes event as JSON. Failures are logged and returned to the
// dispatcher, which never fails the originating request on them.
func (r *RedisRelay) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	receivers, err := r.client.Publish(ctx, r.channel, body).Result()
	if err != nil {
		r.logger.Warn("event relay publish failed",
			zap.String("channel", r.channel),
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}

	r.logger.Debug("event relayed",
		zap.String("channel", r.channel),
		zap.String("event_type", string(event.Type)),
		zap.Int64("receivers", receivers))
	return nil
}
