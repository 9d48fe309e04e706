package service

import (
	"context"
	"errors"
	"fmt"

	"edupay/internal/gateway"
	internalRedis "edupay/internal/redis"
	"edupay/internal/repository"
)

// StatusService answers read-only payment status queries. It never creates
// records and never grants entitlement; the webhook reconciler is the ground
// truth for both.
type StatusService struct {
	records   repository.PaymentRecordRepository
	gateway   PaymentGateway
	cache     internalRedis.StatusCacheStoreInterface
	audit     *AuditService
	keySecret string
}

// NewStatusService creates a new StatusService. cache may be nil, in which
// case every advisory lookup goes to the gateway.
func NewStatusService(
	records repository.PaymentRecordRepository,
	gw PaymentGateway,
	cache internalRedis.StatusCacheStoreInterface,
	audit *AuditService,
	keySecret string,
) *StatusService {
	return &StatusService{
		records:   records,
		gateway:   gw,
		cache:     cache,
		audit:     audit,
		keySecret: keySecret,
	}
}

// StatusRequest is a client-submitted payment confirmation.
type StatusRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	ClientIP  string
}

// PaymentStatus is the advisory answer to a status query. When IsTemporary
// is true the status came from the gateway directly, no webhook has landed
// yet, and the answer is a UX hint rather than a settlement guarantee.
type PaymentStatus struct {
	PaymentID   string
	OrderID     string
	Status      string
	Amount      int64
	Currency    string
	Processed   bool
	IsTemporary bool
}

// GetStatus verifies the client-submitted checkout signature and reports
// payment status, preferring the ledger and falling back to a direct
// gateway query.
func (s *StatusService) GetStatus(ctx context.Context, req StatusRequest) (*PaymentStatus, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, ErrMissingVerificationData
	}

	if !gateway.VerifyCheckoutSignature(req.OrderID, req.PaymentID, req.Signature, s.keySecret) {
		s.audit.Record(AuditEvent{
			Type:      AuditWebhookRejected,
			PaymentID: req.PaymentID,
			OrderID:   req.OrderID,
			ClientIP:  req.ClientIP,
			Detail:    "checkout signature verification failed",
		})
		return nil, ErrInvalidSignature
	}

	record, err := s.records.GetByPaymentOrOrderID(ctx, req.PaymentID, req.OrderID)
	if err == nil {
		return &PaymentStatus{
			PaymentID: record.PaymentID,
			OrderID:   record.OrderID,
			Status:    string(record.Status),
			Amount:    record.Amount,
			Currency:  record.Currency,
			Processed: true,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// No webhook has landed yet; answer from the gateway directly. The
	// result is advisory only and is never inserted into storage.
	return s.fetchAdvisoryStatus(ctx, req)
}

func (s *StatusService) fetchAdvisoryStatus(ctx context.Context, req StatusRequest) (*PaymentStatus, error) {
	if !s.gateway.Enabled() {
		return nil, ErrPaymentsDisabled
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req.OrderID); err == nil && cached != nil {
			return temporaryStatus(cached), nil
		}
	}

	payment, err := s.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		// Some gateways resolve a payment only via its order; try the
		// order's payment list before giving up.
		payments, listErr := s.gateway.FetchOrderPayments(ctx, req.OrderID)
		if listErr != nil || len(payments) == 0 {
			return nil, fmt.Errorf("fetch payment status: %w", err)
		}
		payment = &payments[0]
	}

	cached := &internalRedis.CachedStatus{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Status:    payment.Status,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
	}
	if cached.OrderID == "" {
		cached.OrderID = req.OrderID
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, req.OrderID, cached)
	}

	return temporaryStatus(cached), nil
}

func temporaryStatus(cached *internalRedis.CachedStatus) *PaymentStatus {
	return &PaymentStatus{
		PaymentID:   cached.PaymentID,
		OrderID:     cached.OrderID,
		Status:      cached.Status,
		Amount:      cached.Amount,
		Currency:    cached.Currency,
		Processed:   false,
		IsTemporary: true,
	}
}
