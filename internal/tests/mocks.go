package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"edupay/internal/domain"
	"edupay/internal/gateway"
	"edupay/internal/repository"
)

// ErrMockPaymentNotFound is returned by the mock gateway for unknown payments.
var ErrMockPaymentNotFound = errors.New("mock: payment not found")

// ──────────────────────────────────────────────
// MOCK PAYMENT RECORD REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRecordRepository is a mock implementation of PaymentRecordRepository.
// Create is conflict-safe under concurrent callers, mirroring the unique
// index on payment_id in the real table.
type MockPaymentRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.PaymentRecord // keyed by payment id

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError      error
	IsProcessedError error
}

// NewMockPaymentRecordRepository creates a new mock payment record repository.
func NewMockPaymentRecordRepository() *MockPaymentRecordRepository {
	return &MockPaymentRecordRepository{
		records: make(map[string]*domain.PaymentRecord),
	}
}

func (m *MockPaymentRecordRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.PaymentID]; ok {
		return repository.ErrDuplicate
	}
	for _, r := range m.records {
		if r.OrderID == record.OrderID && r.Status == domain.PaymentStatusCaptured {
			return repository.ErrDuplicate
		}
	}
	copy := *record
	m.records[record.PaymentID] = &copy
	return nil
}

func (m *MockPaymentRecordRepository) IsProcessed(ctx context.Context, paymentID, orderID string) (bool, error) {
	if m.IsProcessedError != nil {
		return false, m.IsProcessedError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.records[paymentID]; ok {
		return true, nil
	}
	for _, r := range m.records {
		if orderID != "" && r.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPaymentRecordRepository) GetByPaymentOrOrderID(ctx context.Context, paymentID, orderID string) (*domain.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[paymentID]; ok {
		copy := *r
		return &copy, nil
	}
	for _, r := range m.records {
		if orderID != "" && r.OrderID == orderID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// RecordCount returns the number of stored records for test assertions.
func (m *MockPaymentRecordRepository) RecordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// GetRecord returns a stored record for test assertions.
func (m *MockPaymentRecordRepository) GetRecord(paymentID string) *domain.PaymentRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[paymentID]
}

// ──────────────────────────────────────────────
// MOCK CATALOG REPOSITORY
// ──────────────────────────────────────────────

// MockCatalogRepository is a mock implementation of CatalogRepository.
type MockCatalogRepository struct {
	mu     sync.RWMutex
	items  map[string]*domain.CatalogItem
	grants map[string]int

	// Counters for verification
	GrantCallCount int32

	// Error injection
	GrantError error
}

// NewMockCatalogRepository creates a new mock catalog repository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		items:  make(map[string]*domain.CatalogItem),
		grants: make(map[string]int),
	}
}

func itemKey(itemType domain.ItemType, itemID string) string {
	return string(itemType) + ":" + itemID
}

// AddItem adds an item to the mock catalog.
func (m *MockCatalogRepository) AddItem(item *domain.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemKey(item.Type, item.ID)] = item
}

func (m *MockCatalogRepository) FindItem(ctx context.Context, itemType domain.ItemType, itemID string) (*domain.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[itemKey(itemType, itemID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *item
	return &copy, nil
}

func (m *MockCatalogRepository) GrantAccess(ctx context.Context, itemType domain.ItemType, itemID, userID string) error {
	atomic.AddInt32(&m.GrantCallCount, 1)
	if m.GrantError != nil {
		return m.GrantError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[itemKey(itemType, itemID)+":"+userID]++
	return nil
}

// GrantCount returns how many times access was granted for assertions.
func (m *MockCatalogRepository) GrantCount(itemType domain.ItemType, itemID, userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[itemKey(itemType, itemID)+":"+userID]
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of service.PaymentGateway.
type MockGateway struct {
	mu           sync.Mutex
	EnabledFlag  bool
	LastOrderReq *gateway.OrderRequest

	// Canned responses
	Payments      map[string]*gateway.Payment
	OrderPayments map[string][]gateway.Payment

	// Counters for verification
	CreateOrderCallCount  int32
	FetchPaymentCallCount int32

	// Error injection
	CreateOrderError  error
	FetchPaymentError error
}

// NewMockGateway creates an enabled mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		EnabledFlag:   true,
		Payments:      make(map[string]*gateway.Payment),
		OrderPayments: make(map[string][]gateway.Payment),
	}
}

func (m *MockGateway) Enabled() bool {
	return m.EnabledFlag
}

func (m *MockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	atomic.AddInt32(&m.CreateOrderCallCount, 1)
	if m.CreateOrderError != nil {
		return nil, m.CreateOrderError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	reqCopy := req
	m.LastOrderReq = &reqCopy
	return &gateway.Order{
		ID:       "order_mock001",
		Entity:   "order",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (m *MockGateway) FetchOrder(ctx context.Context, orderID string) (*gateway.Order, error) {
	return &gateway.Order{ID: orderID, Entity: "order", Status: "created"}, nil
}

func (m *MockGateway) FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	atomic.AddInt32(&m.FetchPaymentCallCount, 1)
	if m.FetchPaymentError != nil {
		return nil, m.FetchPaymentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Payments[paymentID]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, ErrMockPaymentNotFound
}

func (m *MockGateway) FetchOrderPayments(ctx context.Context, orderID string) ([]gateway.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.OrderPayments[orderID], nil
}

// LastOrderRequest returns the most recent order request for assertions.
func (m *MockGateway) LastOrderRequest() *gateway.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastOrderReq
}
