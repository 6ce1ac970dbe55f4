package usecases

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"buffzone.backend/internal/domain/entities"
	apperrors "buffzone.backend/internal/domain/errors"
	domainRepos "buffzone.backend/internal/domain/repositories"
	"buffzone.backend/internal/infrastructure/provider"
	"buffzone.backend/pkg/logger"
)

// RetryExhaustionPolicy decides what happens to an invoice when the
// provider-status reconciliation retry budget runs out.
type RetryExhaustionPolicy string

const (
	// RetryPolicyKeepPending leaves the invoice pending for a later attempt
	// or natural expiry.
	RetryPolicyKeepPending RetryExhaustionPolicy = "keep-pending"
	// RetryPolicyFail marks the invoice failed.
	RetryPolicyFail RetryExhaustionPolicy = "fail"
)

// uuidPattern matches a standard formatted UUID inside free text. Standard
// formatting means one UUID can never be a substring of another.
var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// ProviderStatusClient is the outbound provider dependency
type ProviderStatusClient interface {
	GetTransactionStatus(ctx context.Context, orderCode int64) (*provider.TransactionStatus, error)
}

// WebhookUsecase turns verified provider callbacks into ledger transitions.
// Signature verification and HTTP-level deduplication happen in middleware
// before a payload reaches this type.
type WebhookUsecase struct {
	invoiceUsecase   *InvoiceUsecase
	webhookEventRepo domainRepos.WebhookEventRepository
	providerClient   ProviderStatusClient
	exhaustionPolicy RetryExhaustionPolicy
	sessionTTL       time.Duration
	now              func() time.Time
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(
	invoiceUsecase *InvoiceUsecase,
	webhookEventRepo domainRepos.WebhookEventRepository,
	providerClient ProviderStatusClient,
	exhaustionPolicy RetryExhaustionPolicy,
) *WebhookUsecase {
	if exhaustionPolicy == "" {
		exhaustionPolicy = RetryPolicyKeepPending
	}
	return &WebhookUsecase{
		invoiceUsecase:   invoiceUsecase,
		webhookEventRepo: webhookEventRepo,
		providerClient:   providerClient,
		exhaustionPolicy: exhaustionPolicy,
		sessionTTL:       WebhookEventTTL,
		now:              time.Now,
	}
}

// PaymentWebhookPayload is the provider's callback body. Description is free
// text expected to carry the correlation UUID.
type PaymentWebhookPayload struct {
	AccountNumber       string `json:"accountNumber"`
	Amount              int64  `json:"amount"`
	Description         string `json:"description"`
	Reference           string `json:"reference"`
	TransactionDateTime string `json:"transactionDateTime"`
	OrderCode           int64  `json:"orderCode,omitempty"`
}

// WebhookResult is what a processed (or replayed) delivery reports back.
type WebhookResult struct {
	OrderCode int64                  `json:"orderCode"`
	UUID      string                 `json:"uuid"`
	Status    entities.InvoiceStatus `json:"status"`
}

// ProcessPaymentWebhook applies one verified provider notification: resolve
// the invoice by order code or by the UUID embedded in the description,
// settle the session record, and drive the ledger to completed. Safe to call
// with repeated deliveries; the ledger transition itself is idempotent.
func (uc *WebhookUsecase) ProcessPaymentWebhook(ctx context.Context, payload PaymentWebhookPayload) (*WebhookResult, error) {
	if payload.Amount <= 0 {
		return nil, apperrors.BadRequest("amount must be positive")
	}

	correlationUUID := uuidPattern.FindString(payload.Description)
	if payload.OrderCode == 0 && correlationUUID == "" {
		return nil, apperrors.BadRequest("payload carries neither orderCode nor a correlation uuid")
	}

	inv, err := uc.resolveInvoice(ctx, payload.OrderCode, correlationUUID)
	if err != nil {
		return nil, err
	}

	var txTime *time.Time
	if payload.TransactionDateTime != "" {
		if parsed, perr := time.Parse("2006-01-02 15:04:05", payload.TransactionDateTime); perr == nil {
			txTime = &parsed
		}
	}

	uc.recordDelivery(ctx, payload, inv, correlationUUID, txTime)

	updated, err := uc.invoiceUsecase.UpdateStatus(ctx, inv.OrderCode, entities.InvoiceStatusCompleted, txTime)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment webhook processed",
		zap.Int64("order_code", updated.OrderCode),
		zap.String("status", string(updated.Status)),
		zap.String("reference", payload.Reference),
	)

	return &WebhookResult{
		OrderCode: updated.OrderCode,
		UUID:      updated.UUID,
		Status:    updated.Status,
	}, nil
}

// ReconcileInvoice actively asks the provider for the session's status and
// applies the result. Retry exhaustion is resolved per the configured policy
// rather than auto-failing the invoice.
func (uc *WebhookUsecase) ReconcileInvoice(ctx context.Context, orderCode int64) (*WebhookResult, error) {
	inv, err := uc.invoiceUsecase.GetByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if inv.Status.IsTerminal() {
		return &WebhookResult{OrderCode: inv.OrderCode, UUID: inv.UUID, Status: inv.Status}, nil
	}

	st, err := uc.providerClient.GetTransactionStatus(ctx, orderCode)
	if err != nil {
		if uc.exhaustionPolicy == RetryPolicyFail {
			logger.Warn(ctx, "provider status check exhausted, failing invoice",
				zap.Int64("order_code", orderCode), zap.Error(err))
			return uc.applyStatus(ctx, orderCode, entities.InvoiceStatusFailed, nil)
		}
		return nil, apperrors.NewAppError(502, "ERR_PROVIDER_UNAVAILABLE",
			fmt.Sprintf("provider status check failed for order %d", orderCode), err)
	}

	if st.Status == entities.InvoiceStatusPending {
		return &WebhookResult{OrderCode: inv.OrderCode, UUID: inv.UUID, Status: inv.Status}, nil
	}
	return uc.applyStatus(ctx, orderCode, st.Status, nil)
}

func (uc *WebhookUsecase) applyStatus(ctx context.Context, orderCode int64, status entities.InvoiceStatus, paymentDate *time.Time) (*WebhookResult, error) {
	updated, err := uc.invoiceUsecase.UpdateStatus(ctx, orderCode, status, paymentDate)
	if err != nil {
		return nil, err
	}
	return &WebhookResult{OrderCode: updated.OrderCode, UUID: updated.UUID, Status: updated.Status}, nil
}

func (uc *WebhookUsecase) resolveInvoice(ctx context.Context, orderCode int64, correlationUUID string) (*entities.Invoice, error) {
	if orderCode != 0 {
		return uc.invoiceUsecase.GetByOrderCode(ctx, orderCode)
	}

	inv, err := uc.invoiceUsecase.invoiceRepo.GetByUUID(ctx, correlationUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no invoice matches the correlation uuid")
		}
		return nil, apperrors.InternalError(err)
	}
	return inv, nil
}

// recordDelivery settles the session record for the payment, or synthesizes a
// completed one when the notification arrived for a session this process
// never registered. Best effort: accounting must not block the transition.
func (uc *WebhookUsecase) recordDelivery(ctx context.Context, payload PaymentWebhookPayload, inv *entities.Invoice, correlationUUID string, txTime *time.Time) {
	since := uc.now().Add(-uc.sessionTTL)
	if correlationUUID != "" {
		if event, err := uc.webhookEventRepo.GetByCorrelationUUID(ctx, correlationUUID, since); err == nil {
			_ = uc.webhookEventRepo.UpdateStatus(ctx, event.ID, entities.WebhookEventStatusCompleted)
			return
		}
	}

	event := &entities.WebhookEvent{
		ID:              uuid.New(),
		CorrelationUUID: inv.UUID,
		AccountNumber:   payload.AccountNumber,
		Amount:          payload.Amount,
		Description:     payload.Description,
		Reference:       null.NewString(payload.Reference, payload.Reference != ""),
		OrderCode:       null.Int64From(inv.OrderCode),
		Status:          entities.WebhookEventStatusCompleted,
		ExpiresAt:       uc.now().Add(uc.sessionTTL),
	}
	if txTime != nil {
		event.TransactionAt = null.TimeFrom(*txTime)
	}
	if err := uc.webhookEventRepo.Create(ctx, event); err != nil {
		logger.Warn(ctx, "failed to record webhook delivery", zap.Error(err))
	}
}
