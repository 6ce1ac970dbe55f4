package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/internal/infrastructure/models"
)

// WebhookEventRepositoryImpl implements WebhookEventRepository
type WebhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepositoryImpl {
	return &WebhookEventRepositoryImpl{db: db}
}

func (r *WebhookEventRepositoryImpl) Create(ctx context.Context, ev *entities.WebhookEvent) error {
	now := time.Now()
	m := &models.WebhookEvent{
		ID:              ev.ID,
		CorrelationUUID: ev.CorrelationUUID,
		AccountNumber:   ev.AccountNumber,
		Amount:          ev.Amount,
		Description:     ev.Description,
		Status:          string(ev.Status),
		ExpiresAt:       ev.ExpiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if ev.Reference.Valid {
		s := ev.Reference.String
		m.Reference = &s
	}
	if ev.OrderCode.Valid {
		c := ev.OrderCode.Int64
		m.OrderCode = &c
	}
	if ev.TransactionAt.Valid {
		t := ev.TransactionAt.Time
		m.TransactionAt = &t
	}
	if err := getDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	ev.CreatedAt = m.CreatedAt
	ev.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *WebhookEventRepositoryImpl) GetByCorrelationUUID(ctx context.Context, correlationUUID string, since time.Time) (*entities.WebhookEvent, error) {
	var m models.WebhookEvent
	if err := getDB(ctx, r.db).WithContext(ctx).
		Where("correlation_uuid = ? AND created_at >= ?", correlationUUID, since).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *WebhookEventRepositoryImpl) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.WebhookEvent, error) {
	var m models.WebhookEvent
	if err := getDB(ctx, r.db).WithContext(ctx).
		Where("order_code = ?", orderCode).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *WebhookEventRepositoryImpl) CountPendingByAccount(ctx context.Context, accountNumber string, since time.Time) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("account_number = ? AND status = ? AND created_at >= ?",
			accountNumber, entities.WebhookEventStatusPending, since).
		Count(&count).Error
	return count, err
}

func (r *WebhookEventRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.WebhookEventStatus) error {
	return getDB(ctx, r.db).WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *WebhookEventRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	// Hard delete: expired records must not survive as soft-deleted rows.
	var ids []uuid.UUID
	if err := getDB(ctx, r.db).WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("expires_at < ?", now).
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := getDB(ctx, r.db).WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.WebhookEvent{})
	return res.RowsAffected, res.Error
}

func (r *WebhookEventRepositoryImpl) toEntity(m *models.WebhookEvent) *entities.WebhookEvent {
	ev := &entities.WebhookEvent{
		ID:              m.ID,
		CorrelationUUID: m.CorrelationUUID,
		AccountNumber:   m.AccountNumber,
		Amount:          m.Amount,
		Description:     m.Description,
		Status:          entities.WebhookEventStatus(m.Status),
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Reference != nil {
		ev.Reference = null.StringFrom(*m.Reference)
	}
	if m.OrderCode != nil {
		ev.OrderCode = null.Int64From(*m.OrderCode)
	}
	if m.TransactionAt != nil {
		ev.TransactionAt = null.TimeFrom(*m.TransactionAt)
	}
	return ev
}
