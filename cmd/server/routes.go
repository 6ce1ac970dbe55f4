package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buffzone.backend/internal/interfaces/http/handlers"
	"buffzone.backend/internal/interfaces/http/middleware"
	"buffzone.backend/pkg/dedup"
	"buffzone.backend/pkg/ratelimit"
)

type routeDeps struct {
	invoiceHandler *handlers.InvoiceHandler
	webhookHandler *handlers.WebhookHandler
	sessionHandler *handlers.SessionHandler
	streamHandler  *handlers.StreamHandler
	authHandler    *handlers.AuthHandler
	adminAuth      gin.HandlerFunc
	webhookSecret  string
	webhookLimiter *ratelimit.Limiter
	webhookDedup   *dedup.Deduplicator
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", d.adminAuth, d.authHandler.Logout)
		}

		// Invoice routes
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", middleware.IdempotencyMiddleware(), d.invoiceHandler.CreateInvoice)
			invoices.POST("/session", d.invoiceHandler.CreateSessionInvoice)
			invoices.GET("", d.invoiceHandler.ListInvoices)
			invoices.GET("/:orderCode", d.invoiceHandler.GetInvoice)

			// Manual transitions and reconciliation are operator only
			invoices.PUT("/:orderCode/status", d.adminAuth, d.invoiceHandler.UpdateInvoiceStatus)
			invoices.POST("/:orderCode/reconcile", d.adminAuth, d.webhookHandler.ReconcileInvoice)
		}

		// Session admission checks (public, polled by the payment widget)
		v1.GET("/payment-sessions/check", d.sessionHandler.CheckSession)

		// Status streaming (public, keyed by uuid or orderCode)
		v1.GET("/payment-status/stream", d.streamHandler.StreamStatus)

		// Provider webhook ingress: rate limit, then signature, then dedup
		webhooks := v1.Group("/webhooks")
		webhooks.Use(
			middleware.RateLimitMiddleware(d.webhookLimiter, nil),
			middleware.SignatureMiddleware(d.webhookSecret),
			middleware.DedupMiddleware(d.webhookDedup),
		)
		{
			webhooks.POST("/payment", d.webhookHandler.HandlePaymentWebhook)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key, X-Request-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
