package redis

import (
	"context"
	"encoding/json"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

// Subscribe blocks until ctx is cancelled, feeding every gallery event to
// handler. A malformed payload or a handler failure is logged and skipped;
// the subscription itself stays up.
func (r *RedisEventSubscriber) Subscribe(ctx context.Context, handler domain.EventHandler) error {
	pubsub := r.client.Subscribe(ctx, galleryEventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to gallery events")

	for {
		select {
		case msg := <-ch:
			var event domain.GalleryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(&event); err != nil {
				r.log.Error("Failed to handle event", "type", event.Type, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}
