package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"payflow/models"
)

// IdempotencyStore caches the full response produced for a client-supplied
// idempotency key. Records expire via TTL; there is no revocation.
//
// The current implementation is read-then-write: two near-simultaneous
// requests with the same key can both miss and the later Put wins. Closing
// that race needs an insert-if-absent (SETNX) on this same interface.
type IdempotencyStore interface {
	GetResponse(ctx context.Context, key string) (*models.IdempotencyRecord, error)
	PutResponse(ctx context.Context, key string, rec *models.IdempotencyRecord, ttl time.Duration) error
}

type redisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) key(key string) string {
	return "idem:tx:" + key
}

func (s *redisIdempotencyStore) GetResponse(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	data, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.IdempotencyRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *redisIdempotencyStore) PutResponse(ctx context.Context, key string, rec *models.IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, ttl).Err()
}
