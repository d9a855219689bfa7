package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const limiterOpTimeout = 500 * time.Millisecond

// limiterStorage implements fiber.Storage on Redis so rate-limit counters
// are shared by every replica.
type limiterStorage struct {
	client *redis.Client
	prefix string
}

// LimiterStorage returns a fiber.Storage keyed under prefix, or nil when
// Redis is not configured (fiber then falls back to in-process memory).
func (r *Redis) LimiterStorage(prefix string) fiber.Storage {
	if r == nil || r.Client == nil {
		return nil
	}
	return &limiterStorage{client: r.Client, prefix: prefix}
}

func (s *limiterStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), limiterOpTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *limiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), limiterOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

func (s *limiterStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), limiterOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset removes every key under the prefix.
func (s *limiterStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is owned by Redis.
func (s *limiterStorage) Close() error {
	return nil
}
