package repositories

import (
	"context"
)

// UnitOfWork executes a function within a transaction scope. WithLock derives
// a context that makes repository reads acquire row locks, serializing
// concurrent status transitions for the same invoice.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	WithLock(ctx context.Context) context.Context
}
