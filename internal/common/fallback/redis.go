package fallback

import (
	"context"

	"github.com/redis/go-redis/v9"

	platformredis "academy-backend/internal/platform/redis"
)

type redisStore struct {
	client *platformredis.Client
}

// NewRedisStore returns a Store backed by Redis. Lists are kept newest-first
// (LPUSH) and trimmed to capacity on every append.
func NewRedisStore(client *platformredis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) AppendBounded(ctx context.Context, key string, value []byte, capacity int) error {
	if capacity <= 0 {
		capacity = ActivityBufferCapacity
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, int64(capacity-1))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) List(ctx context.Context, key string, limit int) ([][]byte, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	vals, err := s.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		out = append(out, []byte(v))
	}
	return out, nil
}
