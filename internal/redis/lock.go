package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryMarkerStore tracks recently seen webhook deliveries in Redis.
// The marker is best effort: the unique constraint on the payment ledger is
// what guarantees at-most-once processing. The marker only lets the
// reconciler notice and log concurrent duplicate deliveries.
type DeliveryMarkerStore struct {
	client *redis.Client
}

// NewDeliveryMarkerStore creates a new DeliveryMarkerStore.
func NewDeliveryMarkerStore(client *redis.Client) *DeliveryMarkerStore {
	return &DeliveryMarkerStore{client: client}
}

// MarkDelivery records that a delivery for the given payment is being
// processed. Returns false if another delivery already set the marker
// within the TTL.
func (s *DeliveryMarkerStore) MarkDelivery(ctx context.Context, paymentID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("webhook:delivery:%s", paymentID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
