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

// InvoiceRepositoryImpl implements InvoiceRepository
type InvoiceRepositoryImpl struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepositoryImpl {
	return &InvoiceRepositoryImpl{db: db}
}

func (r *InvoiceRepositoryImpl) Create(ctx context.Context, inv *entities.Invoice) error {
	now := time.Now()
	m := &models.Invoice{
		ID:            inv.ID,
		UserID:        inv.UserID,
		OrderCode:     inv.OrderCode,
		UUID:          inv.UUID,
		Amount:        inv.Amount,
		Bonus:         inv.Bonus,
		Total:         inv.Total,
		Status:        string(inv.Status),
		Description:   inv.Description,
		PaymentMethod: inv.PaymentMethod,
		ExpiresAt:     inv.ExpiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inv.PaymentDate.Valid {
		t := inv.PaymentDate.Time
		m.PaymentDate = &t
	}
	if err := getDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	inv.CreatedAt = m.CreatedAt
	inv.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *InvoiceRepositoryImpl) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.Invoice, error) {
	var m models.Invoice
	if err := getDB(ctx, r.db).WithContext(ctx).Where("order_code = ?", orderCode).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *InvoiceRepositoryImpl) GetByUUID(ctx context.Context, correlationUUID string) (*entities.Invoice, error) {
	var m models.Invoice
	if err := getDB(ctx, r.db).WithContext(ctx).Where("uuid = ?", correlationUUID).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *InvoiceRepositoryImpl) List(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	q := getDB(ctx, r.db).WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", userID)
	return r.list(q, status, limit, offset)
}

func (r *InvoiceRepositoryImpl) ListAll(ctx context.Context, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	q := getDB(ctx, r.db).WithContext(ctx).Model(&models.Invoice{})
	return r.list(q, status, limit, offset)
}

func (r *InvoiceRepositoryImpl) list(q *gorm.DB, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.Invoice
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*entities.Invoice, 0, len(ms))
	for i := range ms {
		invoices = append(invoices, r.toEntity(&ms[i]))
	}
	return invoices, total, nil
}

func (r *InvoiceRepositoryImpl) Update(ctx context.Context, inv *entities.Invoice) error {
	updates := map[string]interface{}{
		"status":     string(inv.Status),
		"updated_at": time.Now(),
	}
	if inv.PaymentDate.Valid {
		updates["payment_date"] = inv.PaymentDate.Time
	}
	return getDB(ctx, r.db).WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(updates).Error
}

func (r *InvoiceRepositoryImpl) GetExpiredPending(ctx context.Context, limit int) ([]*entities.Invoice, error) {
	var ms []models.Invoice
	if err := getDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", entities.InvoiceStatusPending, time.Now()).
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	invoices := make([]*entities.Invoice, 0, len(ms))
	for i := range ms {
		invoices = append(invoices, r.toEntity(&ms[i]))
	}
	return invoices, nil
}

func (r *InvoiceRepositoryImpl) ExpireInvoices(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return getDB(ctx, r.db).WithContext(ctx).Model(&models.Invoice{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     entities.InvoiceStatusExpired,
			"updated_at": time.Now(),
		}).Error
}

func (r *InvoiceRepositoryImpl) toEntity(m *models.Invoice) *entities.Invoice {
	inv := &entities.Invoice{
		ID:            m.ID,
		UserID:        m.UserID,
		OrderCode:     m.OrderCode,
		UUID:          m.UUID,
		Amount:        m.Amount,
		Bonus:         m.Bonus,
		Total:         m.Total,
		Status:        entities.InvoiceStatus(m.Status),
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		ExpiresAt:     m.ExpiresAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.PaymentDate != nil {
		inv.PaymentDate = null.TimeFrom(*m.PaymentDate)
	}
	return inv
}
