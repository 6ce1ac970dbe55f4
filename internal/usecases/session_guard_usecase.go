package usecases

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"buffzone.backend/internal/domain/entities"
	apperrors "buffzone.backend/internal/domain/errors"
	domainRepos "buffzone.backend/internal/domain/repositories"
)

// SessionGuardUsecase enforces the cap on concurrently pending payment
// sessions per account. Admission is advisory: callers reject or redirect the
// user themselves when the quota is exhausted.
type SessionGuardUsecase struct {
	webhookEventRepo domainRepos.WebhookEventRepository
	maxPending       int
	window           time.Duration
	now              func() time.Time
}

// NewSessionGuardUsecase creates a new session guard
func NewSessionGuardUsecase(webhookEventRepo domainRepos.WebhookEventRepository) *SessionGuardUsecase {
	return &SessionGuardUsecase{
		webhookEventRepo: webhookEventRepo,
		maxPending:       MaxPendingSessions,
		window:           SessionWindow,
		now:              time.Now,
	}
}

// SessionExistsResult reports whether a session for a correlation UUID is
// still live inside the admission window.
type SessionExistsResult struct {
	Exists bool                        `json:"exists"`
	Status entities.WebhookEventStatus `json:"status,omitempty"`
}

// SessionQuotaResult reports the admission decision for an account.
type SessionQuotaResult struct {
	CanCreate    bool  `json:"canCreate"`
	PendingCount int64 `json:"pendingCount"`
	MaxAllowed   int   `json:"maxAllowed"`
}

// CheckSessionExists looks up a webhook delivery record for the correlation
// UUID created within the trailing window, so a client reopening the payment
// page can resume an existing session instead of creating a new one.
func (uc *SessionGuardUsecase) CheckSessionExists(ctx context.Context, correlationUUID string) (*SessionExistsResult, error) {
	if correlationUUID == "" {
		return nil, apperrors.BadRequest("uuid is required")
	}

	since := uc.now().Add(-uc.window)
	event, err := uc.webhookEventRepo.GetByCorrelationUUID(ctx, correlationUUID, since)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SessionExistsResult{Exists: false}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	return &SessionExistsResult{Exists: true, Status: event.Status}, nil
}

// CheckCanCreateSession counts the account's pending sessions in the trailing
// window; canCreate is true while the count stays under the cap.
func (uc *SessionGuardUsecase) CheckCanCreateSession(ctx context.Context, accountNumber string) (*SessionQuotaResult, error) {
	if accountNumber == "" {
		return nil, apperrors.BadRequest("accountNumber is required")
	}

	since := uc.now().Add(-uc.window)
	count, err := uc.webhookEventRepo.CountPendingByAccount(ctx, accountNumber, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &SessionQuotaResult{
		CanCreate:    count < int64(uc.maxPending),
		PendingCount: count,
		MaxAllowed:   uc.maxPending,
	}, nil
}
