package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/brandcorner-backend/pkg/redis"
)

// Store persists one ordered item list per guest session. Set and Clear
// notify the session's subscribers.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]Item, error)
	Set(ctx context.Context, sessionID string, items []Item) error
	Clear(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, error)
}

type redisBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, message any) error
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, error)
	CartKey(sessionID string) string
	CartChannel(sessionID string) string
}

// RedisStore keeps the cart JSON under bc:cart:<session> and signals changes on
// bc:cart_updated:<session>.
type RedisStore struct {
	backend redisBackend
	ttl     time.Duration
}

// NewRedisStore builds a Store on top of the shared redis client.
func NewRedisStore(backend redisBackend, ttl time.Duration) (*RedisStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("redis backend required")
	}
	return &RedisStore{backend: backend, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := s.backend.Get(ctx, s.backend.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}
	return decodeItems(raw)
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, items []Item) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.backend.CartKey(sessionID), raw, s.ttl); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return s.notify(ctx, sessionID)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.backend.Del(ctx, s.backend.CartKey(sessionID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return s.notify(ctx, sessionID)
}

func (s *RedisStore) Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	return s.backend.Subscribe(ctx, s.backend.CartChannel(sessionID))
}

func (s *RedisStore) notify(ctx context.Context, sessionID string) error {
	if err := s.backend.Publish(ctx, s.backend.CartChannel(sessionID), ""); err != nil {
		return fmt.Errorf("publish cart update: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store used when redis is not configured.
type MemoryStore struct {
	mu          sync.Mutex
	carts       map[string]string
	subscribers map[string]map[chan struct{}]struct{}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts:       map[string]string{},
		subscribers: map[string]map[chan struct{}]struct{}{},
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]Item, error) {
	s.mu.Lock()
	raw, ok := s.carts[sessionID]
	s.mu.Unlock()
	if !ok {
		return []Item{}, nil
	}
	return decodeItems(raw)
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, items []Item) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = raw
	s.broadcastLocked(sessionID)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	s.broadcastLocked(sessionID)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	if s.subscribers[sessionID] == nil {
		s.subscribers[sessionID] = map[chan struct{}]struct{}{}
	}
	s.subscribers[sessionID][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[sessionID], ch)
		if len(s.subscribers[sessionID]) == 0 {
			delete(s.subscribers, sessionID)
		}
		close(ch)
	}()
	return ch, nil
}

func (s *MemoryStore) broadcastLocked(sessionID string) {
	for ch := range s.subscribers[sessionID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func encodeItems(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(raw), nil
}

func decodeItems(raw string) ([]Item, error) {
	items := []Item{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}
