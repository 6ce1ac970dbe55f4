package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/internal/usecases"
)

func TestSessionGuard_CheckSessionExists_RequiresUUID(t *testing.T) {
	uc := usecases.NewSessionGuardUsecase(new(MockWebhookEventRepository))

	_, err := uc.CheckSessionExists(context.Background(), "")
	require.Error(t, err)
}

func TestSessionGuard_CheckSessionExists_FoundAndMissing(t *testing.T) {
	eventRepo := new(MockWebhookEventRepository)
	uc := usecases.NewSessionGuardUsecase(eventRepo)
	ctx := context.Background()

	liveUUID := uuid.NewString()
	eventRepo.On("GetByCorrelationUUID", ctx, liveUUID, mock.AnythingOfType("time.Time")).
		Return(&entities.WebhookEvent{Status: entities.WebhookEventStatusPending}, nil).Once()

	result, err := uc.CheckSessionExists(ctx, liveUUID)
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, entities.WebhookEventStatusPending, result.Status)

	missingUUID := uuid.NewString()
	eventRepo.On("GetByCorrelationUUID", ctx, missingUUID, mock.AnythingOfType("time.Time")).
		Return(nil, gorm.ErrRecordNotFound).Once()

	result, err = uc.CheckSessionExists(ctx, missingUUID)
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Empty(t, result.Status)
}

func TestSessionGuard_CheckSessionExists_RepoError(t *testing.T) {
	eventRepo := new(MockWebhookEventRepository)
	uc := usecases.NewSessionGuardUsecase(eventRepo)
	ctx := context.Background()

	eventRepo.On("GetByCorrelationUUID", ctx, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("db down")).Once()

	_, err := uc.CheckSessionExists(ctx, uuid.NewString())
	require.Error(t, err)
}

func TestSessionGuard_CheckCanCreateSession_Quota(t *testing.T) {
	tests := []struct {
		name      string
		pending   int64
		canCreate bool
	}{
		{"no sessions", 0, true},
		{"under the cap", 4, true},
		{"at the cap", 5, false},
		{"over the cap", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := new(MockWebhookEventRepository)
			uc := usecases.NewSessionGuardUsecase(eventRepo)
			ctx := context.Background()

			eventRepo.On("CountPendingByAccount", ctx, "ACC-001", mock.AnythingOfType("time.Time")).
				Return(tt.pending, nil).Once()

			result, err := uc.CheckCanCreateSession(ctx, "ACC-001")
			require.NoError(t, err)
			assert.Equal(t, tt.canCreate, result.CanCreate)
			assert.Equal(t, tt.pending, result.PendingCount)
			assert.Equal(t, usecases.MaxPendingSessions, result.MaxAllowed)
		})
	}
}

func TestSessionGuard_CheckCanCreateSession_RequiresAccount(t *testing.T) {
	uc := usecases.NewSessionGuardUsecase(new(MockWebhookEventRepository))

	_, err := uc.CheckCanCreateSession(context.Background(), "")
	require.Error(t, err)
}
