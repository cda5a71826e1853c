package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/brandcorner-backend/pkg/redis"
)

const defaultGuardTTL = 30 * time.Second

// Guard grants one in-flight submission per cart session.
type Guard interface {
	Acquire(ctx context.Context, sessionID string) (token string, ok bool, err error)
	Release(ctx context.Context, sessionID, token string) error
}

type guardStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutGuardKey(sessionID string) string
}

// RedisGuard implements Guard with SETNX + TTL. The TTL bounds how long a
// crashed submission can block the session.
type RedisGuard struct {
	client guardStore
	ttl    time.Duration
}

// NewRedisGuard constructs a Redis-backed guard.
func NewRedisGuard(client guardStore, ttl time.Duration) (*RedisGuard, error) {
	if client == nil {
		return nil, errors.New("redis client required for checkout guard")
	}
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &RedisGuard{client: client, ttl: ttl}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.client.CheckoutGuardKey(sessionID), token, g.ttl)
	if err != nil {
		return "", false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release deletes the guard only while token still owns it.
func (g *RedisGuard) Release(ctx context.Context, sessionID, token string) error {
	if token == "" {
		return nil
	}
	key := g.client.CheckoutGuardKey(sessionID)
	value, err := g.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil
		}
		return fmt.Errorf("read guard owner: %w", err)
	}
	if value != token {
		return nil
	}
	if err := g.client.Del(ctx, key); err != nil {
		return fmt.Errorf("delete guard: %w", err)
	}
	return nil
}

// MemoryGuard is the single-process Guard used without redis.
type MemoryGuard struct {
	mu     sync.Mutex
	owners map[string]string
}

// NewMemoryGuard returns an empty guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{owners: map[string]string{}}
}

func (g *MemoryGuard) Acquire(_ context.Context, sessionID string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.owners[sessionID]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	g.owners[sessionID] = token
	return token, true, nil
}

func (g *MemoryGuard) Release(_ context.Context, sessionID, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.owners[sessionID] == token {
		delete(g.owners, sessionID)
	}
	return nil
}
