package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session's cart in a redis hash so multiple
// storefront instances behind a load balancer can share sessions. The
// hash carries a session-lifetime TTL refreshed on every write, so cart
// state still never outlives its session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    sessionTTL,
	}
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, productID int64) error {
	key := cartKey(sessionID)
	field := strconv.FormatInt(productID, 10)

	if err := s.client.HIncrBy(ctx, key, field, 1).Err(); err != nil {
		return fmt.Errorf("redis add item failed: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis refresh ttl failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID string, productID int64) error {
	key := cartKey(sessionID)
	field := strconv.FormatInt(productID, 10)

	// Decrement only entries that exist; an absent id stays absent.
	exists, err := s.client.HExists(ctx, key, field).Result()
	if err != nil {
		return fmt.Errorf("redis check item failed: %w", err)
	}
	if !exists {
		return nil
	}

	qty, err := s.client.HIncrBy(ctx, key, field, -1).Result()
	if err != nil {
		return fmt.Errorf("redis remove item failed: %w", err)
	}
	if qty <= 0 {
		if err := s.client.HDel(ctx, key, field).Err(); err != nil {
			return fmt.Errorf("redis delete item failed: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Entries(ctx context.Context, sessionID string) (map[int64]int64, error) {
	raw, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get cart failed: %w", err)
	}

	entries := make(map[int64]int64, len(raw))
	for field, value := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart field %q: %w", field, err)
		}
		qty, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity %q: %w", value, err)
		}
		entries[id] = qty
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis clear cart failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
