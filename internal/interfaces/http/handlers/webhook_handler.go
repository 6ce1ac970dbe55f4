package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "buffzone.backend/internal/domain/errors"
	"buffzone.backend/internal/interfaces/http/middleware"
	"buffzone.backend/internal/interfaces/http/response"
	"buffzone.backend/internal/usecases"
)

// WebhookHandler receives provider payment callbacks. The signature and
// deduplication middleware run before any of these handlers.
type WebhookHandler struct {
	webhookUsecase *usecases.WebhookUsecase
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase *usecases.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// HandlePaymentWebhook processes a verified provider notification
// POST /api/v1/webhooks/payment
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	var payload usecases.PaymentWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middleware.WebhookOutcomes.WithLabelValues("malformed").Inc()
		response.Error(c, apperrors.BadRequest(err.Error()))
		return
	}

	result, err := h.webhookUsecase.ProcessPaymentWebhook(c.Request.Context(), payload)
	if err != nil {
		middleware.WebhookOutcomes.WithLabelValues("rejected").Inc()
		response.Error(c, err)
		return
	}

	middleware.WebhookOutcomes.WithLabelValues("applied").Inc()
	response.Success(c, http.StatusOK, result)
}

// ReconcileInvoice asks the provider for the authoritative transaction state
// and settles the invoice accordingly
// POST /api/v1/invoices/:orderCode/reconcile
func (h *WebhookHandler) ReconcileInvoice(c *gin.Context) {
	orderCode, err := strconv.ParseInt(c.Param("orderCode"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.BadRequest("orderCode must be numeric"))
		return
	}

	result, err := h.webhookUsecase.ReconcileInvoice(c.Request.Context(), orderCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
