package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"buffzone.backend/internal/domain/entities"
	"buffzone.backend/internal/infrastructure/statuscache"
	"buffzone.backend/internal/usecases"
)

type invoiceRepoStub struct {
	createFn         func(ctx context.Context, invoice *entities.Invoice) error
	getByOrderCodeFn func(ctx context.Context, orderCode int64) (*entities.Invoice, error)
	getByUUIDFn      func(ctx context.Context, correlationUUID string) (*entities.Invoice, error)
	listFn           func(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error)
	listAllFn        func(ctx context.Context, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error)
	updateFn         func(ctx context.Context, invoice *entities.Invoice) error
}

func (s *invoiceRepoStub) Create(ctx context.Context, invoice *entities.Invoice) error {
	if s.createFn != nil {
		return s.createFn(ctx, invoice)
	}
	return nil
}
func (s *invoiceRepoStub) GetByOrderCode(ctx context.Context, orderCode int64) (*entities.Invoice, error) {
	if s.getByOrderCodeFn != nil {
		return s.getByOrderCodeFn(ctx, orderCode)
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *invoiceRepoStub) GetByUUID(ctx context.Context, correlationUUID string) (*entities.Invoice, error) {
	if s.getByUUIDFn != nil {
		return s.getByUUIDFn(ctx, correlationUUID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *invoiceRepoStub) List(ctx context.Context, userID uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, status, limit, offset)
	}
	return nil, 0, nil
}
func (s *invoiceRepoStub) ListAll(ctx context.Context, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
	if s.listAllFn != nil {
		return s.listAllFn(ctx, status, limit, offset)
	}
	return nil, 0, nil
}
func (s *invoiceRepoStub) Update(ctx context.Context, invoice *entities.Invoice) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, invoice)
	}
	return nil
}
func (s *invoiceRepoStub) GetExpiredPending(context.Context, int) ([]*entities.Invoice, error) {
	return nil, nil
}
func (s *invoiceRepoStub) ExpireInvoices(context.Context, []uuid.UUID) error { return nil }

type userRepoStub struct {
	addBalanceFn func(ctx context.Context, id uuid.UUID, delta int64) error
}

func (s *userRepoStub) Create(context.Context, *entities.User) error { return nil }
func (s *userRepoStub) GetByID(context.Context, uuid.UUID) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *userRepoStub) AddBalance(ctx context.Context, id uuid.UUID, delta int64) error {
	if s.addBalanceFn != nil {
		return s.addBalanceFn(ctx, id, delta)
	}
	return nil
}

type uowStub struct{}

func (uowStub) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (uowStub) WithLock(ctx context.Context) context.Context                     { return ctx }

func invoiceRouter(invoiceRepo *invoiceRepoStub, eventRepo *sessionEventRepoStub, userRepo *userRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := usecases.NewInvoiceUsecase(invoiceRepo, eventRepo, userRepo, uowStub{}, statuscache.New())
	h := NewInvoiceHandler(uc)

	r := gin.New()
	r.POST("/invoices", h.CreateInvoice)
	r.POST("/invoices/session", h.CreateSessionInvoice)
	r.GET("/invoices", h.ListInvoices)
	r.GET("/invoices/:orderCode", h.GetInvoice)
	r.PUT("/invoices/:orderCode/status", h.UpdateInvoiceStatus)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateInvoice_Success(t *testing.T) {
	var created *entities.Invoice
	repo := &invoiceRepoStub{
		createFn: func(_ context.Context, invoice *entities.Invoice) error {
			created = invoice
			return nil
		},
	}
	r := invoiceRouter(repo, &sessionEventRepoStub{}, &userRepoStub{})

	w := postJSON(r, "/invoices", gin.H{
		"userId":    uuid.NewString(),
		"orderCode": 1001,
		"amount":    50000,
		"bonus":     5000,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	require.Equal(t, int64(1001), created.OrderCode)
	require.Equal(t, int64(55000), created.Total)
	require.Equal(t, entities.InvoiceStatusPending, created.Status)
}

func TestCreateInvoice_RejectsMalformedUserID(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	w := postJSON(r, "/invoices", gin.H{
		"userId":    "not-a-uuid",
		"orderCode": 1001,
		"amount":    50000,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoice_RejectsMissingFields(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	w := postJSON(r, "/invoices", gin.H{"amount": 50000})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSessionInvoice_RequiresValidUUID(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	w := postJSON(r, "/invoices/session", gin.H{
		"userId":    uuid.NewString(),
		"orderCode": 1001,
		"amount":    50000,
		"uuid":      "nope",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetInvoice_ByOrderCode(t *testing.T) {
	repo := &invoiceRepoStub{
		getByOrderCodeFn: func(_ context.Context, orderCode int64) (*entities.Invoice, error) {
			require.Equal(t, int64(1001), orderCode)
			return &entities.Invoice{OrderCode: 1001, Status: entities.InvoiceStatusPending}, nil
		},
	}
	r := invoiceRouter(repo, &sessionEventRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/invoices/1001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var inv entities.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	require.Equal(t, int64(1001), inv.OrderCode)
}

func TestGetInvoice_NonNumericOrderCode(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/invoices/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetInvoice_NotFound(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/invoices/4040", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInvoices_ByUser(t *testing.T) {
	userID := uuid.New()
	repo := &invoiceRepoStub{
		listFn: func(_ context.Context, gotUser uuid.UUID, status entities.InvoiceStatus, limit, offset int) ([]*entities.Invoice, int64, error) {
			require.Equal(t, userID, gotUser)
			require.Equal(t, entities.InvoiceStatusPending, status)
			require.Equal(t, 10, limit)
			require.Equal(t, 10, offset)
			return []*entities.Invoice{{OrderCode: 1001}}, 21, nil
		},
	}
	r := invoiceRouter(repo, &sessionEventRepoStub{}, &userRepoStub{})

	url := fmt.Sprintf("/invoices?userId=%s&status=pending&page=2&limit=10", userID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Invoices   []*entities.Invoice `json:"invoices"`
		Pagination struct {
			TotalCount int64 `json:"totalCount"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Invoices, 1)
	require.EqualValues(t, 21, body.Pagination.TotalCount)
	require.Equal(t, 3, body.Pagination.TotalPages)
}

func TestListInvoices_AllUsersWhenNoUserID(t *testing.T) {
	listAllCalled := false
	repo := &invoiceRepoStub{
		listAllFn: func(context.Context, entities.InvoiceStatus, int, int) ([]*entities.Invoice, int64, error) {
			listAllCalled = true
			return nil, 0, nil
		},
	}
	r := invoiceRouter(repo, &sessionEventRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, listAllCalled)
}

func TestUpdateInvoiceStatus_AppliesTransition(t *testing.T) {
	stored := &entities.Invoice{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		OrderCode: 1001,
		UUID:      uuid.NewString(),
		Amount:    50000,
		Total:     50000,
		Status:    entities.InvoiceStatusPending,
	}
	var updated *entities.Invoice
	repo := &invoiceRepoStub{
		getByOrderCodeFn: func(context.Context, int64) (*entities.Invoice, error) {
			return stored, nil
		},
		updateFn: func(_ context.Context, invoice *entities.Invoice) error {
			updated = invoice
			return nil
		},
	}
	eventRepo := &sessionEventRepoStub{
		getByCorrelationFn: func(context.Context, string, time.Time) (*entities.WebhookEvent, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	r := invoiceRouter(repo, eventRepo, &userRepoStub{})

	raw, _ := json.Marshal(gin.H{"status": "failed"})
	req := httptest.NewRequest(http.MethodPut, "/invoices/1001/status", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, updated)
	require.Equal(t, entities.InvoiceStatusFailed, updated.Status)
}

func TestUpdateInvoiceStatus_RejectsUnknownStatus(t *testing.T) {
	r := invoiceRouter(&invoiceRepoStub{}, &sessionEventRepoStub{}, &userRepoStub{})

	raw, _ := json.Marshal(gin.H{"status": "refunded"})
	req := httptest.NewRequest(http.MethodPut, "/invoices/1001/status", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
