package usecases

import "time"

const (
	// MinDepositAmount is the smallest accepted invoice amount in currency units
	MinDepositAmount int64 = 10000
	// InvoiceTTL is the default invoice expiry window
	InvoiceTTL = 30 * 24 * time.Hour
	// WebhookEventTTL is how long webhook delivery records live
	WebhookEventTTL = 24 * time.Hour
	// SessionWindow is the trailing window for session admission accounting
	SessionWindow = 24 * time.Hour
	// MaxPendingSessions caps concurrently pending payment sessions per account
	MaxPendingSessions = 5
)
