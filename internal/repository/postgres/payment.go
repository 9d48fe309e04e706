package postgres

import (
	"context"
	"database/sql"
	"errors"

	"edupay/internal/domain"
	"edupay/internal/repository"
)

// PaymentRecordRepository is a PostgreSQL implementation of
// repository.PaymentRecordRepository.
//
// The payment_records table carries a unique index on payment_id and a
// partial unique index on order_id where status = 'captured'. The insert
// uses ON CONFLICT DO NOTHING so that concurrent webhook deliveries for the
// same payment resolve to exactly one row at the database, not in
// application memory.
type PaymentRecordRepository struct {
	q Querier
}

// NewPaymentRecordRepository creates a new PostgreSQL payment record repository.
func NewPaymentRecordRepository(db *sql.DB) *PaymentRecordRepository {
	return &PaymentRecordRepository{q: db}
}

// NewPaymentRecordRepositoryWithTx creates a payment record repository using a transaction.
func NewPaymentRecordRepositoryWithTx(tx *sql.Tx) *PaymentRecordRepository {
	return &PaymentRecordRepository{q: tx}
}

// Create persists a new payment record. A conflicting insert (same
// payment_id, or same order_id for a captured record) affects zero rows and
// returns repository.ErrDuplicate.
func (r *PaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	query := `
		INSERT INTO payment_records
			(id, payment_id, order_id, status, amount, currency,
			 item_type, item_id, user_id, failure_reason, payload, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		record.ID,
		record.PaymentID,
		record.OrderID,
		record.Status,
		record.Amount,
		record.Currency,
		record.ItemType,
		record.ItemID,
		record.UserID,
		record.FailureReason,
		record.Payload,
		record.ProcessedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrDuplicate
	}

	return nil
}

// IsProcessed reports whether any record exists for either gateway id.
func (r *PaymentRecordRepository) IsProcessed(ctx context.Context, paymentID, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_records
			WHERE payment_id = $1 OR order_id = $2
		)
	`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, paymentID, orderID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// GetByPaymentOrOrderID retrieves a record matching either id.
func (r *PaymentRecordRepository) GetByPaymentOrOrderID(ctx context.Context, paymentID, orderID string) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, payment_id, order_id, status, amount, currency,
		       item_type, item_id, user_id, failure_reason, payload, processed_at
		FROM payment_records
		WHERE payment_id = $1 OR order_id = $2
		ORDER BY processed_at
		LIMIT 1
	`

	var record domain.PaymentRecord
	err := r.q.QueryRowContext(ctx, query, paymentID, orderID).Scan(
		&record.ID,
		&record.PaymentID,
		&record.OrderID,
		&record.Status,
		&record.Amount,
		&record.Currency,
		&record.ItemType,
		&record.ItemID,
		&record.UserID,
		&record.FailureReason,
		&record.Payload,
		&record.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}
