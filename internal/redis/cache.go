package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCacheStore caches advisory payment-status lookups in Redis.
// Only gateway-fetched (temporary) statuses are cached; the ledger itself is
// never served from cache. A short TTL bounds how stale a polled status can
// get before the webhook lands.
type StatusCacheStore struct {
	client *redis.Client
}

// NewStatusCacheStore creates a new StatusCacheStore.
func NewStatusCacheStore(client *redis.Client) *StatusCacheStore {
	return &StatusCacheStore{client: client}
}

// StatusCacheTTL bounds how long an advisory gateway status is reused under
// client polling.
const StatusCacheTTL = 10 * time.Second

const statusCachePrefix = "cache:payment_status:"

// CachedStatus is an advisory payment status fetched from the gateway.
type CachedStatus struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Get retrieves a cached advisory status. Returns nil on cache miss.
func (s *StatusCacheStore) Get(ctx context.Context, orderID string) (*CachedStatus, error) {
	key := statusCachePrefix + orderID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var status CachedStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Set stores an advisory status.
func (s *StatusCacheStore) Set(ctx context.Context, orderID string, status *CachedStatus) error {
	key := statusCachePrefix + orderID
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, StatusCacheTTL).Err()
}
