package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 30 * 24 * time.Hour

// Store persists one aggregate per user. Loading a user with no stored cart
// returns a fresh empty aggregate, never an error.
type Store interface {
	Load(ctx context.Context, userID string) (*Aggregate, error)
	Save(ctx context.Context, userID string, agg *Aggregate) error
	Delete(ctx context.Context, userID string) error
}

// RedisStore keeps each cart as a JSON blob under cart:<userID> with a 30-day
// TTL, refreshed on every save.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Aggregate, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	var agg Aggregate
	if err := json.Unmarshal([]byte(data), &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, agg *Aggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), data, cartTTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}

// MemoryStore is the in-process Store used by tests. It serializes through
// JSON like the Redis store so round-trip behavior matches.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[userID]
	if !ok {
		return New(), nil
	}
	var agg Aggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, agg *Aggregate) error {
	raw, err := json.Marshal(agg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = raw
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}
