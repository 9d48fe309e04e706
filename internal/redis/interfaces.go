package redis

import (
	"context"
	"time"
)

// StatusCacheStoreInterface defines the interface for advisory status caching.
type StatusCacheStoreInterface interface {
	Get(ctx context.Context, orderID string) (*CachedStatus, error)
	Set(ctx context.Context, orderID string, status *CachedStatus) error
}

// DeliveryMarkerStoreInterface defines the interface for webhook delivery markers.
type DeliveryMarkerStoreInterface interface {
	MarkDelivery(ctx context.Context, paymentID string, ttl time.Duration) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ StatusCacheStoreInterface    = (*StatusCacheStore)(nil)
	_ DeliveryMarkerStoreInterface = (*DeliveryMarkerStore)(nil)
)
