package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	intentKeyPrefix  = "checkout:intent:"
	defaultIntentTTL = time.Hour
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisStoreOption configures a Redis-backed IntentStore.
type RedisStoreOption func(*redisStore)

// WithIntentTTL overrides how long an unfinished intent survives in Redis.
// Expired intents behave as if they were never saved.
func WithIntentTTL(ttl time.Duration) RedisStoreOption {
	return func(s *redisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore returns an IntentStore backed by Redis so intents survive
// page reloads and process restarts. Intents are stored as JSON under
// "checkout:intent:<sessionID>" with a one hour TTL by default.
//
// Panics if client is nil.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) IntentStore {
	if client == nil {
		panic("checkout: redis client is required")
	}
	s := &redisStore{client: client, ttl: defaultIntentTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *redisStore) Save(ctx context.Context, intent *Intent) error {
	data, err := json.Marshal(intent)
	if err != nil {
		return errors.Join(ErrIntentInvalid, err)
	}
	return s.client.Set(ctx, intentKeyPrefix+intent.SessionID, data, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Intent, error) {
	data, err := s.client.Get(ctx, intentKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, errors.Join(ErrIntentInvalid, err)
	}
	return &intent, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, intentKeyPrefix+sessionID).Err()
}
