package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"docgate/types"
)

const keyPrefix = "validation:"

// Store persists classification results in Redis, keyed by document id.
// Downstream consumers (the ingestion status endpoint, the idempotency guard)
// read them back.
type Store struct {
	rdb *redis.Client
}

// NewStore connects to Redis at addr (host:port).
func NewStore(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb}
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SaveResult writes the classification record. Records are kept until the
// document leaves the pipeline; no TTL is applied here.
func (s *Store) SaveResult(ctx context.Context, result types.ClassificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+result.DocumentID, data, 0).Err(); err != nil {
		return fmt.Errorf("store result for %s: %w", result.DocumentID, err)
	}
	return nil
}

// GetResult returns the stored record, or (nil, nil) when none exists.
func (s *Store) GetResult(ctx context.Context, documentID string) (*types.ClassificationResult, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+documentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load result for %s: %w", documentID, err)
	}

	var result types.ClassificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode result for %s: %w", documentID, err)
	}
	return &result, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
