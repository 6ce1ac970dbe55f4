package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"buffzone.backend/internal/domain/entities"
	apperrors "buffzone.backend/internal/domain/errors"
	"buffzone.backend/internal/interfaces/http/response"
	"buffzone.backend/internal/usecases"
	"buffzone.backend/pkg/utils"
)

// InvoiceHandler handles invoice ledger endpoints
type InvoiceHandler struct {
	invoiceUsecase *usecases.InvoiceUsecase
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceUsecase *usecases.InvoiceUsecase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUsecase: invoiceUsecase}
}

type createInvoiceRequest struct {
	UserID        string `json:"userId" binding:"required"`
	OrderCode     int64  `json:"orderCode" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
	Bonus         int64  `json:"bonus"`
	Description   string `json:"description"`
	PaymentMethod string `json:"paymentMethod"`
}

type createSessionInvoiceRequest struct {
	createInvoiceRequest
	UUID          string `json:"uuid" binding:"required,uuid"`
	AccountNumber string `json:"accountNumber"`
}

// CreateInvoice handles invoice creation
// POST /api/v1/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.BadRequest(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperrors.BadRequest("userId must be a uuid"))
		return
	}

	inv, err := h.invoiceUsecase.CreateInvoice(c.Request.Context(), usecases.CreateInvoiceInput{
		UserID:        userID,
		OrderCode:     req.OrderCode,
		Amount:        req.Amount,
		Bonus:         req.Bonus,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, inv)
}

// CreateSessionInvoice handles QR session invoice creation keyed by a client
// correlation UUID
// POST /api/v1/invoices/session
func (h *InvoiceHandler) CreateSessionInvoice(c *gin.Context) {
	var req createSessionInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.BadRequest(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperrors.BadRequest("userId must be a uuid"))
		return
	}

	inv, err := h.invoiceUsecase.CreateInvoiceFromSession(c.Request.Context(), usecases.CreateSessionInvoiceInput{
		CreateInvoiceInput: usecases.CreateInvoiceInput{
			UserID:        userID,
			OrderCode:     req.OrderCode,
			Amount:        req.Amount,
			Bonus:         req.Bonus,
			Description:   req.Description,
			PaymentMethod: req.PaymentMethod,
		},
		UUID:          req.UUID,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, inv)
}

// GetInvoice returns a single invoice by order code
// GET /api/v1/invoices/:orderCode
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	orderCode, err := strconv.ParseInt(c.Param("orderCode"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.BadRequest("orderCode must be numeric"))
		return
	}

	inv, err := h.invoiceUsecase.GetByOrderCode(c.Request.Context(), orderCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, inv)
}

// ListInvoices lists a user's invoices newest first
// GET /api/v1/invoices?userId=&status=&page=&limit=
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userIDParam := c.Query("userId")
	status := entities.InvoiceStatus(c.Query("status"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var (
		invoices []*entities.Invoice
		meta     utils.PaginationMeta
		err      error
	)

	if userIDParam == "" {
		invoices, meta, err = h.invoiceUsecase.ListAllInvoices(c.Request.Context(), status, page, limit)
	} else {
		userID, parseErr := uuid.Parse(userIDParam)
		if parseErr != nil {
			response.Error(c, apperrors.BadRequest("userId must be a uuid"))
			return
		}
		invoices, meta, err = h.invoiceUsecase.ListInvoices(c.Request.Context(), userID, status, page, limit)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"invoices":   invoices,
		"pagination": meta,
	})
}

type updateStatusRequest struct {
	Status      string     `json:"status" binding:"required"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// UpdateInvoiceStatus applies a manual status transition (operator only)
// PUT /api/v1/invoices/:orderCode/status
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	orderCode, err := strconv.ParseInt(c.Param("orderCode"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.BadRequest("orderCode must be numeric"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.BadRequest(err.Error()))
		return
	}

	inv, err := h.invoiceUsecase.UpdateStatus(c.Request.Context(), orderCode,
		entities.InvoiceStatus(req.Status), req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, inv)
}
