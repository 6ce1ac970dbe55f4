package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"buffzone.backend/internal/domain/entities"
)

// WebhookEventRepository persists short-lived webhook delivery records
type WebhookEventRepository interface {
	Create(ctx context.Context, event *entities.WebhookEvent) error
	// GetByCorrelationUUID returns the most recent record for the correlation
	// token created after the given cutoff.
	GetByCorrelationUUID(ctx context.Context, correlationUUID string, since time.Time) (*entities.WebhookEvent, error)
	GetByOrderCode(ctx context.Context, orderCode int64) (*entities.WebhookEvent, error)
	// CountPendingByAccount counts pending records for the account created
	// after the given cutoff. Drives session admission.
	CountPendingByAccount(ctx context.Context, accountNumber string, since time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.WebhookEventStatus) error
	// DeleteExpired hard-deletes records whose expiry has passed and reports
	// how many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
