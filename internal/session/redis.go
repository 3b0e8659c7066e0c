package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etegie-bot/backend/shared/redis"
)

const keyPrefix = "etegie:session:"

// anonymous marks sessions opened without a company; redis values cannot be empty-vs-missing safely
const anonymous = "-"

// RedisStore keeps bindings in Redis so several server replicas share them
type RedisStore struct {
	client *redis.RedisClient
	ttl    time.Duration
}

// NewRedisStore creates a store with a sliding ttl
func NewRedisStore(client *redis.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Bind claims the session with SETNX and slides its ttl
func (s *RedisStore) Bind(ctx context.Context, sessionID, companyID string) error {
	key := keyPrefix + sessionID
	value := companyID
	if value == "" {
		value = anonymous
	}

	created, err := s.client.SetNX(ctx, key, value, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to bind session: %w", err)
	}
	if created {
		return nil
	}

	bound, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Bind(ctx, sessionID, companyID)
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if bound != value {
		return ErrSessionMismatch
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl); err != nil {
			return fmt.Errorf("failed to refresh session: %w", err)
		}
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
