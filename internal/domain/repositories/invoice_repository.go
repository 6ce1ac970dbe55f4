package repositories

import (
	"context"

	"github.com/google/uuid"
	"buffzone.backend/internal/domain/entities"
)

// InvoiceRepository persists the invoice ledger
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entities.Invoice) error
	GetByOrderCode(ctx context.Context, orderCode int64) (*entities.Invoice, error)
	GetByUUID(ctx context.Context, correlationUUID string) (*entities.Invoice, error)
	// List returns the user's invoices newest first, optionally filtered by
	// status, plus the unfiltered-by-page total count.
	List(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error)
	ListAll(ctx context.Context, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error)
	Update(ctx context.Context, invoice *entities.Invoice) error
	GetExpiredPending(ctx context.Context, limit int) ([]*entities.Invoice, error)
	ExpireInvoices(ctx context.Context, ids []uuid.UUID) error
}
