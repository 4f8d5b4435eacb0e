package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisBidGate serializes concurrent bid acceptance per artwork with a
// compare-and-set Lua script. The gate is not the source of truth for the
// price (that is always the bid history); it only makes sure two bids
// racing for the same price cannot both pass the strict-greater rule.
type RedisBidGate struct {
	client *redis.Client
}

func NewRedisBidGate(client *redis.Client) *RedisBidGate {
	return &RedisBidGate{client: client}
}

// tryBidScript seeds the gate from ARGV[2] (the effective price computed
// from the history) when cold, then applies the strict-greater rule.
// Returns {accepted, price the comparison ran against}.
var tryBidScript = redis.NewScript(`
    local key = "artwork:" .. KEYS[1] .. ":gate"
    local current = redis.call('GET', key)
    if current == false then
        current = ARGV[2]
        redis.call('SET', key, current)
    end
    local cur = tonumber(current)
    local amount = tonumber(ARGV[1])
    if amount > cur then
        redis.call('SET', key, ARGV[1])
        return {1, current}
    end
    return {0, current}
`)

func (g *RedisBidGate) TryBid(ctx context.Context, artworkID string, amount, fallback int64) (bool, int64, error) {
	result, err := tryBidScript.Run(ctx, g.client, []string{artworkID},
		strconv.FormatInt(amount, 10),
		strconv.FormatInt(fallback, 10)).Result()
	if err != nil {
		return false, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected gate reply: %v", result)
	}

	accepted := values[0].(int64) == 1
	current, err := strconv.ParseInt(fmt.Sprint(values[1]), 10, 64)
	if err != nil {
		return false, 0, err
	}
	return accepted, current, nil
}

// Reset drops the gate so the next bid reseeds it from the history. Used
// when an admin edits the base price or deletes the artwork.
func (g *RedisBidGate) Reset(ctx context.Context, artworkID string) error {
	key := fmt.Sprintf("artwork:%s:gate", artworkID)
	return g.client.Del(ctx, key).Err()
}
