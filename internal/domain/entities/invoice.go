package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// InvoiceStatus represents invoice status
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusFailed    InvoiceStatus = "failed"
	InvoiceStatusExpired   InvoiceStatus = "expired"
)

// ValidInvoiceStatus reports whether s is one of the recognized statuses.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusCompleted, InvoiceStatusFailed, InvoiceStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether s is a final status. Terminal invoices accept no
// further transitions.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCompleted || s == InvoiceStatusFailed || s == InvoiceStatusExpired
}

// Invoice represents a payment intent tracked from creation to terminal
// resolution. OrderCode is the provider-assigned numeric code for one payment
// session; UUID is the client correlation token and survives QR regeneration.
type Invoice struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"userId"`
	OrderCode     int64         `json:"orderCode"`
	UUID          string        `json:"uuid"`
	Amount        int64         `json:"amount"`
	Bonus         int64         `json:"bonus"`
	Total         int64         `json:"total"`
	Status        InvoiceStatus `json:"status"`
	Description   string        `json:"description,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	PaymentDate   null.Time     `json:"paymentDate,omitempty"`
	ExpiresAt     time.Time     `json:"expiresAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	DeletedAt     *time.Time    `json:"-"`
}
