package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"edupay/internal/domain"
	"edupay/internal/gateway"
	"edupay/internal/service"
)

const keySecret = "key_secret_test"

func checkoutSig(orderID, paymentID string) string {
	return signBody(keySecret, []byte(orderID+"|"+paymentID))
}

func newStatusService(records *MockPaymentRecordRepository, gw *MockGateway) *service.StatusService {
	audit := service.NewAuditService(nil, "")
	return service.NewStatusService(records, gw, nil, audit, keySecret)
}

func TestStatus_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	svc := newStatusService(NewMockPaymentRecordRepository(), NewMockGateway())

	testCases := []struct {
		name string
		req  service.StatusRequest
	}{
		{name: "no order id", req: service.StatusRequest{PaymentID: "pay_1", Signature: "sig"}},
		{name: "no payment id", req: service.StatusRequest{OrderID: "order_1", Signature: "sig"}},
		{name: "no signature", req: service.StatusRequest{OrderID: "order_1", PaymentID: "pay_1"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.GetStatus(context.Background(), tc.req)
			if !errors.Is(err, service.ErrMissingVerificationData) {
				t.Errorf("expected ErrMissingVerificationData, got: %v", err)
			}
		})
	}
}

func TestStatus_InvalidSignature_Rejected(t *testing.T) {
	t.Parallel()

	svc := newStatusService(NewMockPaymentRecordRepository(), NewMockGateway())

	_, err := svc.GetStatus(context.Background(), service.StatusRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: checkoutSig("order_1", "pay_other"),
	})
	if !errors.Is(err, service.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got: %v", err)
	}
}

func TestStatus_LedgerHit_Authoritative(t *testing.T) {
	t.Parallel()

	records := NewMockPaymentRecordRepository()
	_ = records.Create(context.Background(), &domain.PaymentRecord{
		ID:          "rec-1",
		PaymentID:   "pay_1",
		OrderID:     "order_1",
		Status:      domain.PaymentStatusCaptured,
		Amount:      50000,
		Currency:    "INR",
		ProcessedAt: time.Now(),
	})

	gw := NewMockGateway()
	svc := newStatusService(records, gw)

	status, err := svc.GetStatus(context.Background(), service.StatusRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: checkoutSig("order_1", "pay_1"),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !status.Processed || status.IsTemporary {
		t.Errorf("ledger hit should be processed and not temporary: %+v", status)
	}
	if status.Status != string(domain.PaymentStatusCaptured) {
		t.Errorf("expected captured status, got %q", status.Status)
	}
	if gw.FetchPaymentCallCount != 0 {
		t.Error("ledger hit must not query the gateway")
	}
}

func TestStatus_LedgerMiss_GatewayFallbackIsTemporary(t *testing.T) {
	t.Parallel()

	records := NewMockPaymentRecordRepository()
	gw := NewMockGateway()
	gw.Payments["pay_1"] = &gateway.Payment{
		ID: "pay_1", OrderID: "order_1", Amount: 50000, Currency: "INR", Status: "authorized",
	}

	svc := newStatusService(records, gw)

	status, err := svc.GetStatus(context.Background(), service.StatusRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: checkoutSig("order_1", "pay_1"),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if status.Processed || !status.IsTemporary {
		t.Errorf("gateway fallback should be temporary and unprocessed: %+v", status)
	}
	if status.Status != "authorized" {
		t.Errorf("expected gateway status echoed, got %q", status.Status)
	}

	// Advisory lookups never write to the ledger.
	if records.RecordCount() != 0 || records.CreateCallCount != 0 {
		t.Error("status endpoint must never insert records")
	}
}

func TestStatus_LedgerMiss_OrderPaymentsFallback(t *testing.T) {
	t.Parallel()

	records := NewMockPaymentRecordRepository()
	gw := NewMockGateway()
	gw.FetchPaymentError = ErrMockPaymentNotFound
	gw.OrderPayments["order_1"] = []gateway.Payment{
		{ID: "pay_1", OrderID: "order_1", Amount: 50000, Currency: "INR", Status: "created"},
	}

	svc := newStatusService(records, gw)

	status, err := svc.GetStatus(context.Background(), service.StatusRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: checkoutSig("order_1", "pay_1"),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !status.IsTemporary || status.Status != "created" {
		t.Errorf("expected temporary status from order payments list, got: %+v", status)
	}
}

func TestStatus_LedgerMissAndGatewayDisabled_Unavailable(t *testing.T) {
	t.Parallel()

	gw := NewMockGateway()
	gw.EnabledFlag = false

	svc := newStatusService(NewMockPaymentRecordRepository(), gw)

	_, err := svc.GetStatus(context.Background(), service.StatusRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: checkoutSig("order_1", "pay_1"),
	})
	if !errors.Is(err, service.ErrPaymentsDisabled) {
		t.Errorf("expected ErrPaymentsDisabled, got: %v", err)
	}
}
