package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WebhookEventStatus represents the status of a webhook delivery record
type WebhookEventStatus string

const (
	WebhookEventStatusPending   WebhookEventStatus = "pending"
	WebhookEventStatusCompleted WebhookEventStatus = "completed"
	WebhookEventStatusExpired   WebhookEventStatus = "expired"
)

// WebhookEvent is a received or synthesized provider notification. Records are
// short-lived: they exist for session admission accounting and deduplication
// and are physically deleted once ExpiresAt passes (24h after creation).
type WebhookEvent struct {
	ID              uuid.UUID          `json:"id"`
	CorrelationUUID string             `json:"correlationUuid"`
	AccountNumber   string             `json:"accountNumber"`
	Amount          int64              `json:"amount"`
	Description     string             `json:"description,omitempty"`
	Reference       null.String        `json:"reference,omitempty"`
	OrderCode       null.Int64         `json:"orderCode,omitempty"`
	Status          WebhookEventStatus `json:"status"`
	TransactionAt   null.Time          `json:"transactionAt,omitempty"`
	ExpiresAt       time.Time          `json:"expiresAt"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
