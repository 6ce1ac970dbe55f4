package usecases

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"buffzone.backend/internal/domain/entities"
	apperrors "buffzone.backend/internal/domain/errors"
	domainRepos "buffzone.backend/internal/domain/repositories"
	"buffzone.backend/internal/infrastructure/statuscache"
	"buffzone.backend/pkg/utils"
)

// InvoiceUsecase owns the invoice ledger state machine. It is the only
// component that credits payer balance, and it publishes every status change
// to the fan-out cache after the transaction commits.
type InvoiceUsecase struct {
	invoiceRepo      domainRepos.InvoiceRepository
	webhookEventRepo domainRepos.WebhookEventRepository
	userRepo         domainRepos.UserRepository
	uow              domainRepos.UnitOfWork
	cache            *statuscache.Cache

	minAmount  int64
	invoiceTTL time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

// NewInvoiceUsecase creates a new invoice usecase
func NewInvoiceUsecase(
	invoiceRepo domainRepos.InvoiceRepository,
	webhookEventRepo domainRepos.WebhookEventRepository,
	userRepo domainRepos.UserRepository,
	uow domainRepos.UnitOfWork,
	cache *statuscache.Cache,
) *InvoiceUsecase {
	return &InvoiceUsecase{
		invoiceRepo:      invoiceRepo,
		webhookEventRepo: webhookEventRepo,
		userRepo:         userRepo,
		uow:              uow,
		cache:            cache,
		minAmount:        MinDepositAmount,
		invoiceTTL:       InvoiceTTL,
		sessionTTL:       WebhookEventTTL,
		now:              time.Now,
	}
}

// CreateInvoiceInput holds invoice creation parameters
type CreateInvoiceInput struct {
	UserID        uuid.UUID
	OrderCode     int64
	Amount        int64
	Bonus         int64
	Description   string
	PaymentMethod string
}

// CreateSessionInvoiceInput additionally carries the client correlation token
// and the payer account identity used for session admission accounting.
type CreateSessionInvoiceInput struct {
	CreateInvoiceInput
	UUID          string
	AccountNumber string
}

// CreateInvoice creates a pending invoice for an order code. Creating twice
// with the same order code returns the stored invoice so client retries stay
// idempotent.
func (uc *InvoiceUsecase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*entities.Invoice, error) {
	if input.Amount < uc.minAmount {
		return nil, apperrors.NewAppError(400, "ERR_INVALID_AMOUNT",
			"amount must be at least "+strconv.FormatInt(uc.minAmount, 10), apperrors.ErrInvalidAmount)
	}

	existing, err := uc.invoiceRepo.GetByOrderCode(ctx, input.OrderCode)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	inv := uc.buildInvoice(input, uuid.NewString())
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, apperrors.InternalError(err)
	}

	uc.publish(inv, false)
	return inv, nil
}

// CreateInvoiceFromSession creates a pending invoice keyed by the client's
// correlation UUID. A repeated UUID returns the stored invoice unchanged,
// which lets a client regenerate its QR code without duplicating ledger rows.
// A fresh session also registers a pending webhook delivery record so the
// admission guard can count it.
func (uc *InvoiceUsecase) CreateInvoiceFromSession(ctx context.Context, input CreateSessionInvoiceInput) (*entities.Invoice, error) {
	if input.UUID == "" {
		return nil, apperrors.BadRequest("uuid is required")
	}

	existing, err := uc.invoiceRepo.GetByUUID(ctx, input.UUID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if input.Amount < uc.minAmount {
		return nil, apperrors.NewAppError(400, "ERR_INVALID_AMOUNT",
			"amount must be at least "+strconv.FormatInt(uc.minAmount, 10), apperrors.ErrInvalidAmount)
	}

	if existing, err := uc.invoiceRepo.GetByOrderCode(ctx, input.OrderCode); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InternalError(err)
	}

	inv := uc.buildInvoice(input.CreateInvoiceInput, input.UUID)
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, apperrors.InternalError(err)
	}

	account := input.AccountNumber
	if account == "" {
		account = input.UserID.String()
	}
	event := &entities.WebhookEvent{
		ID:              uuid.New(),
		CorrelationUUID: input.UUID,
		AccountNumber:   account,
		Amount:          inv.Total,
		Description:     input.Description,
		OrderCode:       null.Int64From(input.OrderCode),
		Status:          entities.WebhookEventStatusPending,
		ExpiresAt:       uc.now().Add(uc.sessionTTL),
	}
	if err := uc.webhookEventRepo.Create(ctx, event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	uc.publish(inv, false)
	return inv, nil
}

// UpdateStatus applies a one-way transition to the invoice identified by
// order code. Terminal invoices are never changed again: a repeated or
// conflicting call is a no-op returning the stored invoice, which also makes
// the balance credit on completion exactly-once.
func (uc *InvoiceUsecase) UpdateStatus(ctx context.Context, orderCode int64, status entities.InvoiceStatus, paymentDate *time.Time) (*entities.Invoice, error) {
	if !entities.ValidInvoiceStatus(status) {
		return nil, apperrors.NewAppError(400, "ERR_INVALID_STATUS",
			"status must be one of pending, completed, failed, expired", apperrors.ErrInvalidStatus)
	}

	var result *entities.Invoice
	var changed bool

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := uc.uow.WithLock(txCtx)

		inv, err := uc.invoiceRepo.GetByOrderCode(lockCtx, orderCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("invoice not found")
			}
			return err
		}

		if inv.Status.IsTerminal() || inv.Status == status {
			result = inv
			return nil
		}

		inv.Status = status
		if status == entities.InvoiceStatusCompleted {
			when := uc.now()
			if paymentDate != nil {
				when = *paymentDate
			}
			inv.PaymentDate = null.TimeFrom(when)

			if err := uc.userRepo.AddBalance(txCtx, inv.UserID, inv.Total); err != nil {
				return err
			}
		}

		if err := uc.invoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		uc.settleSessionRecord(txCtx, inv.UUID, status)

		result = inv
		changed = true
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.InternalError(err)
	}

	if changed {
		uc.publish(result, false)
	}
	return result, nil
}

// ListInvoices returns a user's invoices newest first with pagination meta.
func (uc *InvoiceUsecase) ListInvoices(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, page, limit int) ([]*entities.Invoice, utils.PaginationMeta, error) {
	if status != "" && !entities.ValidInvoiceStatus(status) {
		return nil, utils.PaginationMeta{}, apperrors.BadRequest("invalid status filter")
	}

	params := utils.GetPaginationParams(page, limit)
	invoices, total, err := uc.invoiceRepo.List(ctx, userID, status, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, apperrors.InternalError(err)
	}
	return invoices, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// ListAllInvoices is the admin variant of ListInvoices across all users.
func (uc *InvoiceUsecase) ListAllInvoices(ctx context.Context, status entities.InvoiceStatus, page, limit int) ([]*entities.Invoice, utils.PaginationMeta, error) {
	if status != "" && !entities.ValidInvoiceStatus(status) {
		return nil, utils.PaginationMeta{}, apperrors.BadRequest("invalid status filter")
	}

	params := utils.GetPaginationParams(page, limit)
	invoices, total, err := uc.invoiceRepo.ListAll(ctx, status, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, apperrors.InternalError(err)
	}
	return invoices, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// GetByOrderCode looks up a single invoice.
func (uc *InvoiceUsecase) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByOrderCode(ctx, orderCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("invoice not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return inv, nil
}

// PublishStatus pushes an invoice's current status into the fan-out cache
// under both of its keys. Used after out-of-band transitions (expiry job).
func (uc *InvoiceUsecase) PublishStatus(inv *entities.Invoice) {
	uc.publish(inv, false)
}

func (uc *InvoiceUsecase) buildInvoice(input CreateInvoiceInput, correlationUUID string) *entities.Invoice {
	now := uc.now()
	return &entities.Invoice{
		ID:            uuid.New(),
		UserID:        input.UserID,
		OrderCode:     input.OrderCode,
		UUID:          correlationUUID,
		Amount:        input.Amount,
		Bonus:         input.Bonus,
		Total:         input.Amount + input.Bonus,
		Status:        entities.InvoiceStatusPending,
		Description:   input.Description,
		PaymentMethod: input.PaymentMethod,
		ExpiresAt:     now.Add(uc.invoiceTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// settleSessionRecord moves the matching webhook delivery record out of
// pending so the admission counter drops. Best effort: a missing record is
// fine, the invoice transition already happened.
func (uc *InvoiceUsecase) settleSessionRecord(ctx context.Context, correlationUUID string, status entities.InvoiceStatus) {
	since := uc.now().Add(-uc.sessionTTL)
	event, err := uc.webhookEventRepo.GetByCorrelationUUID(ctx, correlationUUID, since)
	if err != nil {
		return
	}

	target := entities.WebhookEventStatusExpired
	if status == entities.InvoiceStatusCompleted {
		target = entities.WebhookEventStatusCompleted
	}
	_ = uc.webhookEventRepo.UpdateStatus(ctx, event.ID, target)
}

func (uc *InvoiceUsecase) publish(inv *entities.Invoice, cached bool) {
	entry := statuscache.Entry{
		Status:    inv.Status,
		OrderCode: inv.OrderCode,
		UUID:      inv.UUID,
		Amount:    inv.Total,
		Cached:    cached,
	}
	if inv.PaymentDate.Valid {
		t := inv.PaymentDate.Time
		entry.PaymentDate = &t
	}

	uc.cache.Set(inv.UUID, entry)
	uc.cache.Set(strconv.FormatInt(inv.OrderCode, 10), entry)
}
