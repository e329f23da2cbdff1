package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "cart:"

// RedisStore keeps cart snapshots in Redis. Each save refreshes the TTL, so an
// idle cart expires after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient connects to url and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("store", "redis").Logger(),
	}
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Cart, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c, err := decode(data)
	if err != nil {
		// A corrupt snapshot is dropped rather than blocking the customer.
		s.logger.Warn().Err(err).Str("cart_key", key).Msg("discarding unreadable cart snapshot")
		return New(), nil
	}

	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, c *Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, key)
	}

	data, err := encode(c)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		s.logger.Error().Err(err).Str("cart_key", key).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
