package redis

import (
	"context"
	"encoding/json"

	"gallery-auction/internal/domain"

	"github.com/go-redis/redis/v8"
)

const galleryEventsChannel = "gallery_events"

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) Publish(ctx context.Context, event *domain.GalleryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, galleryEventsChannel, payload).Err()
}
