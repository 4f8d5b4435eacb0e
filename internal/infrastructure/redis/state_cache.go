package redis

import (
	"context"
	"errors"
	"strconv"

	"gallery-auction/internal/domain"

	"github.com/go-redis/redis/v8"
)

const windowStateKey = "auction:window:state"

// RedisStateCache remembers the last announced window state, shared across
// instances so each transition is broadcast once.
type RedisStateCache struct {
	client *redis.Client
}

func NewRedisStateCache(client *redis.Client) *RedisStateCache {
	return &RedisStateCache{client: client}
}

func (r *RedisStateCache) SetState(ctx context.Context, state domain.AuctionState) error {
	return r.client.Set(ctx, windowStateKey, int(state), 0).Err()
}

func (r *RedisStateCache) GetState(ctx context.Context) (domain.AuctionState, bool, error) {
	result, err := r.client.Get(ctx, windowStateKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.StatePending, false, nil
		}
		return domain.StatePending, false, err
	}

	state, err := strconv.Atoi(result)
	if err != nil {
		return domain.StatePending, false, err
	}

	return domain.AuctionState(state), true, nil
}
