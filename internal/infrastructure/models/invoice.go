package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderCode     int64     `gorm:"not null;uniqueIndex"`
	UUID          string    `gorm:"column:uuid;type:varchar(64);not null;index"`
	Amount        int64     `gorm:"not null"`
	Bonus         int64     `gorm:"not null;default:0"`
	Total         int64     `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	Description   string    `gorm:"type:text"`
	PaymentMethod string    `gorm:"type:varchar(50)"`
	PaymentDate   *time.Time
	ExpiresAt     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
