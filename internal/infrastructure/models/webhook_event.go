package models

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent rows are hard-deleted by the expiry sweeper, so no soft delete.
type WebhookEvent struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CorrelationUUID string    `gorm:"column:correlation_uuid;type:varchar(64);not null;index"`
	AccountNumber   string    `gorm:"type:varchar(64);not null;index"`
	Amount          int64     `gorm:"not null"`
	Description     string    `gorm:"type:text"`
	Reference       *string   `gorm:"type:varchar(255)"`
	OrderCode       *int64    `gorm:"index"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	TransactionAt   *time.Time
	ExpiresAt       time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
