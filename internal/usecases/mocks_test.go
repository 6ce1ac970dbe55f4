package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/internal/infrastructure/provider"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *entities.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.Invoice, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByUUID(ctx context.Context, correlationUUID string) (*entities.Invoice, error) {
	args := m.Called(ctx, correlationUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ListAll(ctx context.Context, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *entities.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetExpiredPending(ctx context.Context, limit int) ([]*entities.Invoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExpireInvoices(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// Mock WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Create(ctx context.Context, ev *entities.WebhookEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) GetByCorrelationUUID(ctx context.Context, correlationUUID string, since time.Time) (*entities.WebhookEvent, error) {
	args := m.Called(ctx, correlationUUID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.WebhookEvent, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) CountPendingByAccount(ctx context.Context, accountNumber string, since time.Time) (int64, error) {
	args := m.Called(ctx, accountNumber, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWebhookEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.WebhookEventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).(int64), args.Error(1)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, id uuid.UUID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// Mock ProviderStatusClient
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) GetTransactionStatus(ctx context.Context, orderCode int64) (*provider.TransactionStatus, error) {
	args := m.Called(ctx, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TransactionStatus), args.Error(1)
}
