package session

import (
	"context"
	"time"

	"etegie-bot/backend/pkg/cache"
)

// MemoryStore keeps bindings in a process-local TTL cache
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a store whose bindings expire after ttl of inactivity
func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, maxSessions)}
}

// Run purges expired sessions until ctx is cancelled
func (s *MemoryStore) Run(ctx context.Context) {
	s.cache.Run(ctx, time.Minute)
}

// Bind records the first company a session is used with
func (s *MemoryStore) Bind(ctx context.Context, sessionID, companyID string) error {
	actual, _ := s.cache.GetOrSet(sessionID, companyID)
	if actual.(string) != companyID {
		return ErrSessionMismatch
	}
	return nil
}

// Ping only fails once ctx is done
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
