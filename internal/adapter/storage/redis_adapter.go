package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	availabilityKey        = "rooms:availability"
	availabilityVersionKey = "rooms:availability:version"
	idempotencyKeyTTL      = 24 * time.Hour
)

var publishAvailabilityScript = redis.NewScript(`
local version = tonumber(ARGV[1])
local current = tonumber(redis.call('GET', KEYS[2]) or '-1')

if version <= current then
	return 0
end

redis.call('SET', KEYS[2], version)
for i = 2, #ARGV, 2 do
	redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
end

return 1
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) PublishAvailability(ctx context.Context, version int64, counts map[int]int) error {
	args := make([]interface{}, 0, 1+2*len(counts))
	args = append(args, version)
	for floor, n := range counts {
		args = append(args, floor, n)
	}

	keys := []string{availabilityKey, availabilityVersionKey}
	if err := publishAvailabilityScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("publish availability: %w", err)
	}
	return nil
}

// ClearAvailability drops the published counts so a restarted process can
// publish from its own first version.
func (r *RedisAdapter) ClearAvailability(ctx context.Context) error {
	return r.client.Del(ctx, availabilityKey, availabilityVersionKey).Err()
}

// Availability reads back the published counts. A missing version reads as -1.
func (r *RedisAdapter) Availability(ctx context.Context) (int64, map[int]int, error) {
	version, err := r.client.Get(ctx, availabilityVersionKey).Int64()
	if err == redis.Nil {
		return -1, map[int]int{}, nil
	}
	if err != nil {
		return 0, nil, err
	}

	raw, err := r.client.HGetAll(ctx, availabilityKey).Result()
	if err != nil {
		return 0, nil, err
	}

	counts := make(map[int]int, len(raw))
	for k, v := range raw {
		floor, err := strconv.Atoi(k)
		if err != nil {
			return 0, nil, fmt.Errorf("bad floor field %q: %w", k, err)
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, nil, fmt.Errorf("bad count for floor %d: %w", floor, err)
		}
		counts[floor] = n
	}
	return version, counts, nil
}
