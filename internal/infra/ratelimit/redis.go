// internal/infra/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore keeps one sorted set per key, scored by hit time in milliseconds, so several
// service instances share a limit. Keys expire with their window, so no cleanup is needed.
type RedisStore struct {
	client *redis.Client
	now    Clock
	prefix string
}

func NewRedisStore(client *redis.Client, clock Clock) *RedisStore {
	if clock == nil {
		clock = time.Now
	}
	return &RedisStore{
		client: client,
		now:    clock,
		prefix: redisKeyPrefix,
	}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := s.now()
	nowMs := now.UnixMilli()
	cutoff := now.Add(-window).UnixMilli()
	redisKey := s.prefix + key

	var (
		card   *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowMs), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, redisKey)
		oldest = pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
		pipe.PExpire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit hit for %s: %w", key, err)
	}

	oldestAt := now
	if zs := oldest.Val(); len(zs) > 0 {
		oldestAt = time.UnixMilli(int64(zs[0].Score))
	}
	return int(card.Val()), oldestAt, nil
}
