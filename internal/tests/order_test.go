package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edupay/internal/domain"
	"edupay/internal/service"
)

func newOrderService(gw *MockGateway, catalog *MockCatalogRepository) *service.OrderService {
	audit := service.NewAuditService(nil, "")
	return service.NewOrderService(gw, catalog, audit, "INR")
}

// ──────────────────────────────────────────────
// 1. PRICE AUTHORITY
// ──────────────────────────────────────────────

func TestCreateOrder_ServerPriceOverridesClientAmount(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	catalog := NewMockCatalogRepository()
	catalog.AddItem(&domain.CatalogItem{
		Type: domain.ItemTypeCourse, ID: "course-1", Title: "Algebra", Price: 500.00, IsPublished: true,
	})

	svc := newOrderService(gw, catalog)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   1, // tampered client amount
		ItemType: domain.ItemTypeCourse,
		ItemID:   "course-1",
		UserID:   "user-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if order.Amount != 50000 {
		t.Errorf("expected order amount 50000 paise, got %d", order.Amount)
	}
}

func TestCreateOrder_TamperedFractionalPrice(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	catalog := NewMockCatalogRepository()
	catalog.AddItem(&domain.CatalogItem{
		Type: domain.ItemTypeBook, ID: "book-1", Title: "Calculus", Price: 99.99, IsPublished: true,
	})

	svc := newOrderService(gw, catalog)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   1,
		ItemType: domain.ItemTypeBook,
		ItemID:   "book-1",
		UserID:   "user-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if order.Amount != 9999 {
		t.Errorf("expected order amount 9999 paise, got %d", order.Amount)
	}
}

func TestCreateOrder_FreeItemKeepsClientAmount(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	catalog := NewMockCatalogRepository()
	catalog.AddItem(&domain.CatalogItem{
		Type: domain.ItemTypeCourse, ID: "course-free", Title: "Intro", Price: 0, IsPublished: true,
	})

	svc := newOrderService(gw, catalog)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   250.50,
		ItemType: domain.ItemTypeCourse,
		ItemID:   "course-free",
		UserID:   "user-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if order.Amount != 25050 {
		t.Errorf("expected order amount 25050 paise, got %d", order.Amount)
	}
}

// ──────────────────────────────────────────────
// 2. VALIDATION
// ──────────────────────────────────────────────

func TestCreateOrder_InvalidAmount_Fails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		amount float64
	}{
		{name: "zero amount", amount: 0},
		{name: "negative amount", amount: -100},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := newOrderService(NewMockGateway(), NewMockCatalogRepository())

			_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{Amount: tc.amount})
			if !errors.Is(err, service.ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got: %v", err)
			}
		})
	}
}

func TestCreateOrder_ItemNotFound_Fails(t *testing.T) {
	t.Parallel()

	svc := newOrderService(NewMockGateway(), NewMockCatalogRepository())

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   100,
		ItemType: domain.ItemTypeCourse,
		ItemID:   "missing",
		UserID:   "user-1",
	})
	if !errors.Is(err, service.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestCreateOrder_UnpublishedItem_Fails(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	catalog := NewMockCatalogRepository()
	catalog.AddItem(&domain.CatalogItem{
		Type: domain.ItemTypeLiveClass, ID: "live-1", Title: "Draft", Price: 300, IsPublished: false,
	})

	svc := newOrderService(gw, catalog)

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   300,
		ItemType: domain.ItemTypeLiveClass,
		ItemID:   "live-1",
		UserID:   "user-1",
	})
	if !errors.Is(err, service.ErrItemNotPublished) {
		t.Errorf("expected ErrItemNotPublished, got: %v", err)
	}

	if gw.CreateOrderCallCount != 0 {
		t.Error("expected no gateway call for unpublished item")
	}
}

func TestCreateOrder_DisabledGateway_Fails(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	gw.EnabledFlag = false

	svc := newOrderService(gw, NewMockCatalogRepository())

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{Amount: 100})
	if !errors.Is(err, service.ErrPaymentsDisabled) {
		t.Errorf("expected ErrPaymentsDisabled, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. RECEIPT AND NOTES
// ──────────────────────────────────────────────

func TestCreateOrder_OverlongReceipt_Replaced(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	svc := newOrderService(gw, NewMockCatalogRepository())

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:  100,
		Receipt: strings.Repeat("x", 64),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	req := gw.LastOrderRequest()
	if req == nil {
		t.Fatal("expected gateway order request")
	}
	if len(req.Receipt) > 40 {
		t.Errorf("expected receipt <= 40 chars, got %d", len(req.Receipt))
	}
	if !strings.HasPrefix(req.Receipt, "receipt_") {
		t.Errorf("expected generated receipt, got %q", req.Receipt)
	}
}

func TestCreateOrder_ValidReceipt_Preserved(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	svc := newOrderService(gw, NewMockCatalogRepository())

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:  100,
		Receipt: "rcpt_42",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if req := gw.LastOrderRequest(); req.Receipt != "rcpt_42" {
		t.Errorf("expected receipt preserved, got %q", req.Receipt)
	}
}

func TestCreateOrder_NotesCarryPurchaseRef(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	catalog := NewMockCatalogRepository()
	catalog.AddItem(&domain.CatalogItem{
		Type: domain.ItemTypeCourse, ID: "course-7", Title: "Physics", Price: 450, IsPublished: true,
	})

	svc := newOrderService(gw, catalog)

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		Amount:   450,
		ItemType: domain.ItemTypeCourse,
		ItemID:   "course-7",
		UserID:   "user-9",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	req := gw.LastOrderRequest()
	ref, err := domain.ParsePurchaseRef(req.Notes)
	if err != nil {
		t.Fatalf("expected parsable purchase ref in notes, got: %v", err)
	}
	if ref.ItemType != domain.ItemTypeCourse || ref.ItemID != "course-7" || ref.UserID != "user-9" {
		t.Errorf("unexpected purchase ref round-trip: %+v", ref)
	}
}
