package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"buffzone.backend/internal/config"
	"buffzone.backend/internal/infrastructure/jobs"
	"buffzone.backend/internal/infrastructure/provider"
	"buffzone.backend/internal/infrastructure/repositories"
	"buffzone.backend/internal/infrastructure/statuscache"
	"buffzone.backend/internal/interfaces/http/handlers"
	"buffzone.backend/internal/interfaces/http/middleware"
	"buffzone.backend/internal/usecases"
	"buffzone.backend/pkg/dedup"
	"buffzone.backend/pkg/jwt"
	"buffzone.backend/pkg/logger"
	"buffzone.backend/pkg/ratelimit"
	"buffzone.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	invoiceRepo := repositories.NewInvoiceRepository(db)
	webhookEventRepo := repositories.NewWebhookEventRepository(db)
	userRepo := repositories.NewUserRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Status fan-out cache shared by the ledger and the SSE streams
	cache := statuscache.New()

	// Outbound provider client used for reconciliation
	providerClient := provider.NewClient(provider.Config{
		BaseURL:      cfg.Webhook.ProviderBaseURL,
		APIKey:       cfg.Webhook.ProviderAPIKey,
		Timeout:      cfg.Webhook.ProviderTimeout,
		MaxRetries:   cfg.Webhook.MaxRetries,
		InitialDelay: cfg.Webhook.InitialDelay,
	})

	// Initialize usecases
	invoiceUsecase := usecases.NewInvoiceUsecase(invoiceRepo, webhookEventRepo, userRepo, uow, cache)
	sessionGuardUsecase := usecases.NewSessionGuardUsecase(webhookEventRepo)
	webhookUsecase := usecases.NewWebhookUsecase(invoiceUsecase, webhookEventRepo, providerClient,
		usecases.RetryExhaustionPolicy(cfg.Webhook.ExhaustionPolicy))
	authUsecase := usecases.NewAuthUsecase(jwtService, sessionStore,
		cfg.Security.AdminUsername, cfg.Security.AdminPasswordHash, cfg.JWT.AccessExpiry)

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUsecase)
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)
	sessionHandler := handlers.NewSessionHandler(sessionGuardUsecase)
	streamHandler := handlers.NewStreamHandler(cache, handlers.DefaultHeartbeatInterval)
	authHandler := handlers.NewAuthHandler(authUsecase)

	// Webhook ingress protection
	webhookLimiter := ratelimit.New(cfg.Webhook.RateLimitTokens, cfg.Webhook.RateLimitWindow)
	webhookDedup := dedup.New(dedup.DefaultTTL)
	adminAuth := middleware.AdminAuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invoiceExpiryJob := jobs.NewInvoiceExpiryJob(invoiceRepo, invoiceUsecase)
	go invoiceExpiryJob.Start(ctx)
	webhookEventExpiryJob := jobs.NewWebhookEventExpiryJob(webhookEventRepo)
	go webhookEventExpiryJob.Start(ctx)
	go sweepLimiter(ctx, webhookLimiter)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		invoiceHandler: invoiceHandler,
		webhookHandler: webhookHandler,
		sessionHandler: sessionHandler,
		streamHandler:  streamHandler,
		authHandler:    authHandler,
		adminAuth:      adminAuth,
		webhookSecret:  cfg.Webhook.Secret,
		webhookLimiter: webhookLimiter,
		webhookDedup:   webhookDedup,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		invoiceExpiryJob.Stop()
		webhookEventExpiryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 BuffZone Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// sweepLimiter bounds the per-key bucket map of the webhook rate limiter.
func sweepLimiter(ctx context.Context, limiter *ratelimit.Limiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(time.Hour)
		}
	}
}
