package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/backoffice/backoffice-backend/internal/config"
	"github.com/dafibh/backoffice/backoffice-backend/internal/domain"
	"github.com/dafibh/backoffice/backoffice-backend/internal/handler"
	"github.com/dafibh/backoffice/backoffice-backend/internal/middleware"
	"github.com/dafibh/backoffice/backoffice-backend/internal/quickbooks"
	"github.com/dafibh/backoffice/backoffice-backend/internal/repository/postgres"
	"github.com/dafibh/backoffice/backoffice-backend/internal/repository/storage"
	"github.com/dafibh/backoffice/backoffice-backend/internal/service"
	"github.com/dafibh/backoffice/backoffice-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Backoffice API
// @version 1.0
// @description Vendor bill bulk payments and bulk edits with QuickBooks sync
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	billRepo := postgres.NewVendorBillRepository(pool)
	paymentRepo := postgres.NewBillPaymentRepository(pool)
	lineItemRepo := postgres.NewLineItemRepository(pool)
	syncStatusRepo := postgres.NewSyncStatusRepository(pool)

	// Batch reports are archived to S3 when a bucket is configured
	var reportRepo storage.ReportRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3ReportRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 report storage")
		}
		reportRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Batch report archiving enabled")
	}

	// Bills are synced to QuickBooks when a sync endpoint is configured
	var billSyncer domain.BillSyncer
	if cfg.QuickBooks.Enabled() {
		billSyncer = quickbooks.NewClient(quickbooks.Config{
			BaseURL:           cfg.QuickBooks.SyncURL,
			Token:             cfg.QuickBooks.SyncToken,
			RequestsPerMinute: cfg.QuickBooks.RequestsPerMin,
			Timeout:           cfg.QuickBooks.Timeout,
		}, log.Logger)
		log.Info().Msg("QuickBooks sync enabled")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	billService := service.NewVendorBillService(billRepo)
	reporter := service.NewResultReporter(reportRepo, cfg.S3.ReportURLExpiry, log.Logger)
	batchService := service.NewPaymentBatchService(billRepo, service.NewPaymentBatchBuilder())

	syncService := service.NewSyncService(billSyncer, syncStatusRepo, billRepo, log.Logger)
	syncService.SetEventPublisher(hub)

	paymentService := service.NewBulkPaymentService(billRepo, paymentRepo, reporter, log.Logger)
	paymentService.SetEventPublisher(hub)

	editService := service.NewBulkEditService(billRepo, lineItemRepo, syncService, reporter, log.Logger, service.BulkEditConfig{
		ItemPause: cfg.Bulk.ItemPause,
	})
	editService.SetEventPublisher(hub)

	// Retry failed syncs in the background
	var retryWorker *service.SyncRetryWorker
	if syncService.Enabled() {
		retryWorker = service.NewSyncRetryWorker(syncService, log.Logger, service.SyncRetryWorkerConfig{
			Schedule:    cfg.QuickBooks.RetrySchedule,
			MaxAttempts: cfg.QuickBooks.RetryMaxAttempts,
			BatchSize:   cfg.QuickBooks.RetryBatchSize,
		})
		if err := retryWorker.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to start sync retry worker")
		}
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Bulk endpoints are rate limited per workspace
	bulkLimiter := middleware.NewRateLimiterWithConfig(cfg.Bulk.RequestsPerMin, cfg.Bulk.Burst)
	defer bulkLimiter.Stop()

	// WebSocket connections authenticate with the same Auth0 tokens
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	// Initialize handlers
	handlers := handler.Handlers{
		VendorBill:  handler.NewVendorBillHandler(billService),
		BulkPayment: handler.NewBulkPaymentHandler(batchService, paymentService),
		BulkEdit:    handler.NewBulkEditHandler(editService),
		Sync:        handler.NewSyncHandler(syncService),
		WebSocket:   handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API documentation
	if cfg.Env != "production" {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, bulkLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	if retryWorker != nil {
		retryWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
