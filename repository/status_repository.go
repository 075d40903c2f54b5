package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"payflow/models"
)

// StatusStore is the queryable read model maintained by the status
// projection. Apply upserts a record under the monotonic merge rule and
// reports whether the write was taken or skipped as stale.
type StatusStore interface {
	Get(ctx context.Context, transactionID uuid.UUID) (*models.TransactionStatusRecord, error)
	Apply(ctx context.Context, rec models.TransactionStatusRecord) (bool, error)
}

type redisStatusStore struct {
	client *redis.Client
}

func NewRedisStatusStore(client *redis.Client) StatusStore {
	return &redisStatusStore{client: client}
}

func (s *redisStatusStore) key(id uuid.UUID) string {
	return "txstatus:" + id.String()
}

func (s *redisStatusStore) Get(ctx context.Context, transactionID uuid.UUID) (*models.TransactionStatusRecord, error) {
	data, err := s.client.Get(ctx, s.key(transactionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.TransactionStatusRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Apply is read-then-write rather than a transaction. A topic partition is
// owned by one consumer-group member at a time, so concurrent writers for
// the same transaction id only occur during rebalance; the timestamp rule
// keeps even that interleaving convergent.
func (s *redisStatusStore) Apply(ctx context.Context, rec models.TransactionStatusRecord) (bool, error) {
	existing, err := s.Get(ctx, rec.TransactionID)
	if err != nil {
		return false, err
	}
	if !rec.Supersedes(existing) {
		return false, nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	if err := s.client.Set(ctx, s.key(rec.TransactionID), data, 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}
