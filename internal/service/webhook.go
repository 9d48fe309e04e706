package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"edupay/internal/domain"
	"edupay/internal/gateway"
	internalRedis "edupay/internal/redis"
	"edupay/internal/repository"
)

// Gateway webhook event types.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

// deliveryMarkerTTL bounds how long a webhook delivery marker suppresses
// duplicate-delivery logging for the same payment.
const deliveryMarkerTTL = time.Minute

// piiFields are stripped from the nested payment entity before the raw
// payload is persisted.
var piiFields = []string{"card_id", "bank", "wallet", "vpa", "email", "contact"}

// WebhookService is the system of record for payments. It consumes
// asynchronous gateway events, verifies them, enforces idempotency and
// grants entitlement exactly once per captured payment.
type WebhookService struct {
	records  repository.PaymentRecordRepository
	catalog  repository.CatalogRepository
	users    repository.UserRepository
	markers  internalRedis.DeliveryMarkerStoreInterface
	audit    *AuditService
	secret   string
	currency string
}

// NewWebhookService creates a new WebhookService. markers may be nil, in
// which case duplicate-delivery detection relies solely on the storage
// constraint.
func NewWebhookService(
	records repository.PaymentRecordRepository,
	catalog repository.CatalogRepository,
	users repository.UserRepository,
	markers internalRedis.DeliveryMarkerStoreInterface,
	audit *AuditService,
	secret string,
	currency string,
) *WebhookService {
	return &WebhookService{
		records:  records,
		catalog:  catalog,
		users:    users,
		markers:  markers,
		audit:    audit,
		secret:   secret,
		currency: currency,
	}
}

// WebhookResult describes the outcome of processing a webhook delivery.
type WebhookResult struct {
	Event            string
	PaymentID        string
	OrderID          string
	AlreadyProcessed bool
}

// webhookEnvelope is the gateway's webhook wire format. It is only ever
// decoded after the signature over the raw body has been verified.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID               string   `json:"id"`
	OrderID          string   `json:"order_id"`
	Amount           int64    `json:"amount"`
	Currency         string   `json:"currency"`
	Status           string   `json:"status"`
	Notes            notesBag `json:"notes"`
	ErrorDescription string   `json:"error_description"`
}

// notesBag tolerates the gateway sending notes as an empty array instead of
// an object when no notes were set on the order.
type notesBag map[string]string

func (n *notesBag) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		*n = nil
		return nil
	}
	*n = m
	return nil
}

// ProcessEvent verifies and reconciles a single webhook delivery. The raw
// body must be the exact bytes received on the wire.
//
// ErrInvalidSignature is the only error the entrypoint maps to 400; every
// other failure is a business outcome the gateway cannot fix by retrying,
// so the entrypoint acknowledges it with 200.
func (s *WebhookService) ProcessEvent(ctx context.Context, body []byte, signature, clientIP string) (*WebhookResult, error) {
	if s.secret == "" {
		return nil, ErrPaymentsDisabled
	}

	if !gateway.VerifyWebhookSignature(body, signature, s.secret) {
		s.audit.Record(AuditEvent{
			Type:     AuditWebhookRejected,
			ClientIP: clientIP,
			Detail:   "webhook signature verification failed",
		})
		return nil, ErrInvalidSignature
	}

	// Signature checked; the payload is now trusted input.
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrMissingVerificationData
	}

	entity := envelope.Payload.Payment.Entity

	switch envelope.Event {
	case EventPaymentCaptured:
		return s.reconcileCaptured(ctx, body, entity, clientIP)
	case EventPaymentFailed:
		return s.reconcileFailed(ctx, body, entity)
	case EventOrderPaid:
		// Less reliable than payment.captured; log only, no state mutation.
		s.audit.Record(AuditEvent{
			Type:      AuditWebhookIgnored,
			PaymentID: entity.ID,
			OrderID:   entity.OrderID,
			Detail:    "order.paid acknowledged without mutation",
		})
		return &WebhookResult{Event: envelope.Event, PaymentID: entity.ID, OrderID: entity.OrderID}, nil
	default:
		s.audit.Record(AuditEvent{
			Type:   AuditWebhookIgnored,
			Detail: "unknown event " + envelope.Event,
		})
		return &WebhookResult{Event: envelope.Event}, nil
	}
}

// reconcileCaptured records a captured payment and grants entitlement.
func (s *WebhookService) reconcileCaptured(ctx context.Context, body []byte, entity paymentEntity, clientIP string) (*WebhookResult, error) {
	result := &WebhookResult{Event: EventPaymentCaptured, PaymentID: entity.ID, OrderID: entity.OrderID}

	ref, err := domain.ParsePurchaseRef(entity.Notes)
	if err != nil {
		return nil, ErrMissingVerificationData
	}

	s.markDelivery(ctx, entity.ID)

	processed, err := s.records.IsProcessed(ctx, entity.ID, entity.OrderID)
	if err != nil {
		return nil, err
	}
	if processed {
		result.AlreadyProcessed = true
		return result, nil
	}

	item, err := s.catalog.FindItem(ctx, ref.ItemType, ref.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if item.Price > 0 && entity.Amount != toMinorUnits(item.Price) {
		return nil, ErrAmountMismatch
	}

	if entity.Currency != s.currency {
		return nil, ErrCurrencyMismatch
	}

	record := &domain.PaymentRecord{
		ID:          uuid.NewString(),
		PaymentID:   entity.ID,
		OrderID:     entity.OrderID,
		Status:      domain.PaymentStatusCaptured,
		Amount:      entity.Amount,
		Currency:    entity.Currency,
		ItemType:    ref.ItemType,
		ItemID:      ref.ItemID,
		UserID:      ref.UserID,
		Payload:     sanitizePayload(body),
		ProcessedAt: time.Now().UTC(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent delivery won the insert race.
			s.audit.Record(AuditEvent{
				Type:      AuditDuplicateDelivery,
				PaymentID: entity.ID,
				OrderID:   entity.OrderID,
			})
			result.AlreadyProcessed = true
			return result, nil
		}
		return nil, err
	}

	s.audit.Record(AuditEvent{
		Type:      AuditPaymentCaptured,
		UserID:    ref.UserID,
		ItemType:  ref.ItemType,
		ItemID:    ref.ItemID,
		PaymentID: entity.ID,
		OrderID:   entity.OrderID,
		Amount:    entity.Amount,
		Currency:  entity.Currency,
		ClientIP:  clientIP,
	})

	// The payment is recorded; a grant failure must never undo that.
	// Money-state and access-state may diverge transiently, always in the
	// direction of "payment recorded, access pending".
	if err := s.grantEntitlement(ctx, ref); err != nil {
		s.audit.Record(AuditEvent{
			Type:      AuditEntitlementGrantFailed,
			UserID:    ref.UserID,
			ItemType:  ref.ItemType,
			ItemID:    ref.ItemID,
			PaymentID: entity.ID,
			OrderID:   entity.OrderID,
			Detail:    err.Error(),
		})
	}

	return result, nil
}

// reconcileFailed records a failed payment for the ledger.
func (s *WebhookService) reconcileFailed(ctx context.Context, body []byte, entity paymentEntity) (*WebhookResult, error) {
	result := &WebhookResult{Event: EventPaymentFailed, PaymentID: entity.ID, OrderID: entity.OrderID}

	processed, err := s.records.IsProcessed(ctx, entity.ID, entity.OrderID)
	if err != nil {
		return nil, err
	}
	if processed {
		result.AlreadyProcessed = true
		return result, nil
	}

	// Notes are best effort on failures; only the signature is a precondition.
	ref, _ := domain.ParsePurchaseRef(entity.Notes)

	failureReason := entity.ErrorDescription
	if failureReason == "" {
		failureReason = "payment failed"
	}

	record := &domain.PaymentRecord{
		ID:            uuid.NewString(),
		PaymentID:     entity.ID,
		OrderID:       entity.OrderID,
		Status:        domain.PaymentStatusFailed,
		Amount:        entity.Amount,
		Currency:      entity.Currency,
		ItemType:      ref.ItemType,
		ItemID:        ref.ItemID,
		UserID:        ref.UserID,
		FailureReason: failureReason,
		Payload:       sanitizePayload(body),
		ProcessedAt:   time.Now().UTC(),
	}

	if err := s.records.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			result.AlreadyProcessed = true
			return result, nil
		}
		return nil, err
	}

	s.audit.Record(AuditEvent{
		Type:      AuditPaymentFailed,
		UserID:    ref.UserID,
		PaymentID: entity.ID,
		OrderID:   entity.OrderID,
		Amount:    entity.Amount,
		Currency:  entity.Currency,
		Detail:    failureReason,
	})

	return result, nil
}

// grantEntitlement resolves the user and enrolls them in the purchased item.
func (s *WebhookService) grantEntitlement(ctx context.Context, ref domain.PurchaseRef) error {
	if _, err := s.users.GetByID(ctx, ref.UserID); err != nil {
		return err
	}
	return s.catalog.GrantAccess(ctx, ref.ItemType, ref.ItemID, ref.UserID)
}

// markDelivery sets the best-effort delivery marker and logs concurrent
// duplicate deliveries. The storage constraint remains the authority.
func (s *WebhookService) markDelivery(ctx context.Context, paymentID string) {
	if s.markers == nil || paymentID == "" {
		return
	}

	ok, err := s.markers.MarkDelivery(ctx, paymentID, deliveryMarkerTTL)
	if err == nil && !ok {
		s.audit.Record(AuditEvent{
			Type:      AuditDuplicateDelivery,
			PaymentID: paymentID,
			Detail:    "concurrent delivery detected via marker",
		})
	}
}

// sanitizePayload returns a copy of the raw event with PII fields stripped
// from the nested payment entity. Persisted records must never retain raw
// PII from the gateway payload.
func sanitizePayload(body []byte) []byte {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	if outer, ok := payload["payload"].(map[string]any); ok {
		if payment, ok := outer["payment"].(map[string]any); ok {
			if entity, ok := payment["entity"].(map[string]any); ok {
				for _, field := range piiFields {
					delete(entity, field)
				}
			}
		}
	}

	sanitized, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return sanitized
}
