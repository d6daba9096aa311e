package formstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces draft keys.
const DefaultKeyPrefix = "formkit:draft:"

// RedisStore keeps drafts as JSON documents with a TTL.
//
// Values go through JSON, so numbers come back as float64 and structured
// values as map[string]any or []any.
type RedisStore struct {
	db     redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a store on client. A zero ttl keeps drafts forever.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *RedisStore {
	s := &RedisStore{db: client, ttl: ttl, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	if err := validate(snap); err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}
	if err := s.db.Set(ctx, s.key(snap.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", snap.ID, err)
	}
	return nil
}

// Load returns ErrNotFound for missing and expired drafts alike, since Redis
// evicts expired keys itself.
func (s *RedisStore) Load(ctx context.Context, id string) (Snapshot, error) {
	payload, err := s.db.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load draft %s: %w", id, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshot, err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.db.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}
