package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is the payer account credited when an invoice completes. The invoice
// ledger is the only writer of Balance.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}
