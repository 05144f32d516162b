package db

import (
	"context"
	"errors"
	"fmt"

	"classroom-roster/logger"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps values as plain Redis strings (GET/SET)
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in Redis: %w", key, err)
	}
	return nil
}

// InitializeRedisClient creates a Redis client and pings it
func InitializeRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}

	logger.Logger.Info().Str("addr", addr).Int("db", db).Msg("Connected to Redis")
	return rdb, nil
}
