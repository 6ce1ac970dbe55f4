package repositories

import (
	"context"

	"github.com/google/uuid"
	"buffzone.backend/internal/domain/entities"
)

// UserRepository persists payer accounts
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// AddBalance atomically increments the user's balance by delta.
	AddBalance(ctx context.Context, id uuid.UUID, delta int64) error
}
