package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"edupay/internal/domain"
)

// AuditEventType classifies security/audit events emitted by the payment
// subsystem.
type AuditEventType string

const (
	AuditOrderCreated           AuditEventType = "ORDER_CREATED"
	AuditAmountTampered         AuditEventType = "AMOUNT_TAMPERED"
	AuditPaymentCaptured        AuditEventType = "PAYMENT_CAPTURED"
	AuditPaymentFailed          AuditEventType = "PAYMENT_FAILED"
	AuditWebhookRejected        AuditEventType = "WEBHOOK_REJECTED"
	AuditWebhookIgnored         AuditEventType = "WEBHOOK_IGNORED"
	AuditDuplicateDelivery      AuditEventType = "DUPLICATE_DELIVERY"
	AuditEntitlementGrantFailed AuditEventType = "ENTITLEMENT_GRANT_FAILED"
)

// AuditEvent is a structured security/audit event. Events are emitted on
// every path through the payment subsystem, independent of whether the HTTP
// response indicates success.
type AuditEvent struct {
	ID        string          `json:"id"`
	Type      AuditEventType  `json:"type"`
	UserID    string          `json:"user_id,omitempty"`
	ItemType  domain.ItemType `json:"item_type,omitempty"`
	ItemID    string          `json:"item_id,omitempty"`
	PaymentID string          `json:"payment_id,omitempty"`
	OrderID   string          `json:"order_id,omitempty"`
	Amount    int64           `json:"amount,omitempty"`
	Currency  string          `json:"currency,omitempty"`
	ClientIP  string          `json:"client_ip,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditService records audit events. Events are always logged; when a Kafka
// producer is configured they are also published for downstream consumers
// (fraud review, reconciliation dashboards).
type AuditService struct {
	producer sarama.SyncProducer
	topic    string
}

// NewAuditService creates a new AuditService. producer may be nil, in which
// case events are log-only.
func NewAuditService(producer sarama.SyncProducer, topic string) *AuditService {
	return &AuditService{producer: producer, topic: topic}
}

// Record emits an audit event.
func (s *AuditService) Record(event AuditEvent) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	log.Printf("[AUDIT] type=%s payment=%s order=%s user=%s item=%s/%s amount=%d ip=%s detail=%s",
		event.Type, event.PaymentID, event.OrderID, event.UserID,
		event.ItemType, event.ItemID, event.Amount, event.ClientIP, event.Detail)

	if s.producer == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[AUDIT] marshal failed: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.PaymentID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		log.Printf("[AUDIT] publish failed: %v", err)
	}
}
