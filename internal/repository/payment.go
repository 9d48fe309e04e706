package repository

import (
	"context"

	"edupay/internal/domain"
)

// PaymentRecordRepository defines the persistence operations for the
// payment ledger. The ledger is append-only: records are created once and
// never updated or deleted.
type PaymentRecordRepository interface {
	// Create persists a new payment record. Returns ErrDuplicate if a
	// record with the same gateway payment id already exists; the insert
	// must be conflict-safe under concurrent webhook deliveries.
	Create(ctx context.Context, record *domain.PaymentRecord) error

	// IsProcessed reports whether a record already exists for either the
	// gateway payment id or the gateway order id. Duplicate webhook
	// deliveries may reference the same logical payment by either field.
	IsProcessed(ctx context.Context, paymentID, orderID string) (bool, error)

	// GetByPaymentOrOrderID retrieves a record matching either id.
	// Returns ErrNotFound if no record exists.
	GetByPaymentOrOrderID(ctx context.Context, paymentID, orderID string) (*domain.PaymentRecord, error)
}
