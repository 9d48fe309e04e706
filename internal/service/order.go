package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"edupay/internal/domain"
	"edupay/internal/gateway"
	"edupay/internal/repository"
)

// PaymentGateway is the interface for the payment gateway client.
type PaymentGateway interface {
	Enabled() bool
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*gateway.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error)
	FetchOrderPayments(ctx context.Context, orderID string) ([]gateway.Payment, error)
}

var _ PaymentGateway = (*gateway.Client)(nil)

// Razorpay rejects receipts longer than 40 characters.
const maxReceiptLength = 40

// OrderService creates gateway orders for priced catalog items.
type OrderService struct {
	gateway  PaymentGateway
	catalog  repository.CatalogRepository
	audit    *AuditService
	currency string
}

// NewOrderService creates a new OrderService.
func NewOrderService(gw PaymentGateway, catalog repository.CatalogRepository, audit *AuditService, currency string) *OrderService {
	return &OrderService{
		gateway:  gw,
		catalog:  catalog,
		audit:    audit,
		currency: currency,
	}
}

// CreateOrderRequest contains the parameters for creating a gateway order.
// Amount is in major units (rupees) and is advisory when an item reference
// is present: the catalog price is the charge authority.
type CreateOrderRequest struct {
	Amount   float64
	Currency string
	Receipt  string
	Notes    map[string]string
	ItemType domain.ItemType
	ItemID   string
	UserID   string
	ClientIP string
}

// CreateOrder validates the request against the catalog and creates an order
// at the gateway. The server-side price always wins over the client-supplied
// amount; divergence beyond the tolerance is logged as a tampering attempt
// but does not block the request.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*gateway.Order, error) {
	if !s.gateway.Enabled() {
		return nil, ErrPaymentsDisabled
	}

	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	amount := req.Amount
	notes := make(map[string]string, len(req.Notes)+3)
	for k, v := range req.Notes {
		notes[k] = v
	}

	if req.ItemType != "" || req.ItemID != "" {
		if !domain.ValidItemType(req.ItemType) || req.ItemID == "" {
			return nil, ErrInvalidItemRef
		}

		item, err := s.catalog.FindItem(ctx, req.ItemType, req.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, err
		}

		if !item.IsPublished {
			return nil, ErrItemNotPublished
		}

		if item.Price > 0 {
			if amountsDiverge(req.Amount, item.Price) {
				s.audit.Record(AuditEvent{
					Type:     AuditAmountTampered,
					UserID:   req.UserID,
					ItemType: req.ItemType,
					ItemID:   req.ItemID,
					Amount:   toMinorUnits(req.Amount),
					Currency: currency,
					ClientIP: req.ClientIP,
					Detail:   fmt.Sprintf("client amount %.2f, catalog price %.2f", req.Amount, item.Price),
				})
			}
			amount = item.Price
		}

		ref := domain.PurchaseRef{ItemType: req.ItemType, ItemID: req.ItemID, UserID: req.UserID}
		for k, v := range ref.EncodeNotes() {
			notes[k] = v
		}
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   toMinorUnits(amount),
		Currency: currency,
		Receipt:  normalizeReceipt(req.Receipt),
		Notes:    notes,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrDisabled) {
			return nil, ErrPaymentsDisabled
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.audit.Record(AuditEvent{
		Type:     AuditOrderCreated,
		UserID:   req.UserID,
		ItemType: req.ItemType,
		ItemID:   req.ItemID,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		ClientIP: req.ClientIP,
	})

	return order, nil
}

// normalizeReceipt replaces a missing or overlong receipt with a generated
// short one.
func normalizeReceipt(receipt string) string {
	if receipt != "" && len(receipt) <= maxReceiptLength {
		return receipt
	}

	ts := strconv.FormatInt(time.Now().UnixNano(), 10)
	return "receipt_" + ts[len(ts)-8:]
}
