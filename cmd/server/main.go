package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/nexerp/backend/internal/application/billing"
	inventoryapp "github.com/nexerp/backend/internal/application/inventory"
	posapp "github.com/nexerp/backend/internal/application/pos"
	"github.com/nexerp/backend/internal/infrastructure/audit"
	"github.com/nexerp/backend/internal/infrastructure/auth"
	"github.com/nexerp/backend/internal/infrastructure/config"
	"github.com/nexerp/backend/internal/infrastructure/logger"
	"github.com/nexerp/backend/internal/infrastructure/persistence"
	"github.com/nexerp/backend/internal/infrastructure/telemetry"
	"github.com/nexerp/backend/internal/interfaces/http/handler"
	"github.com/nexerp/backend/internal/interfaces/http/middleware"
	"github.com/nexerp/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Service:    cfg.App.Name,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ledger engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register query tracing when enabled
	if cfg.Telemetry.DBTraceEnabled {
		traceCfg := telemetry.DefaultDBTracingConfig()
		traceCfg.Enabled = true
		traceCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		traceCfg.DBSystem = cfg.Database.DBName
		plugin := telemetry.NewDBTracingPlugin(traceCfg, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories. Standalone repositories serve read paths;
	// mutations run through the transaction scopes.
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	accountRepo := persistence.NewGormCustomerAccountRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	billingScope := persistence.NewGormBillingTransactionScope(db.DB)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	posScope := persistence.NewGormPOSTransactionScope(db.DB)

	// Initialize application services
	paymentService := billingapp.NewPaymentService(billingScope, invoiceRepo, paymentRepo, accountRepo)
	stockService := inventoryapp.NewStockService(inventoryScope, stockLevelRepo, stockMovementRepo)
	orderService := posapp.NewOrderService(posScope, orderRepo, stockService, posapp.PricingPolicy{
		PriceDeviationPercent: cfg.Guardrails.PriceDeviationPercent,
		DiscountCapPercent:    cfg.Guardrails.DiscountCapPercent,
	})

	// Audit stream publisher. The engine runs without it when Redis is
	// unreachable; events are best-effort by contract.
	auditPublisher, err := audit.NewRedisEventPublisher(audit.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Warn("Audit stream unavailable, domain events will not be published", zap.Error(err))
	} else {
		defer func() {
			if err := auditPublisher.Close(); err != nil {
				log.Error("Error closing audit publisher", zap.Error(err))
			}
		}()
		paymentService.SetEventPublisher(auditPublisher)
		stockService.SetEventPublisher(auditPublisher)
		log.Info("Audit stream connected")
	}

	// Initialize HTTP handlers
	billingHandler := handler.NewBillingHandler(paymentService)
	inventoryHandler := handler.NewInventoryHandler(stockService)
	posHandler := handler.NewPOSHandler(orderService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, actor
	// resolution. Health stays reachable without a token.
	verifier := auth.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.ActorAuth(middleware.ActorConfig{
		Verifier:            verifier,
		SkipPaths:           []string{"/health", "/api/v1/health"},
		AllowHeaderFallback: cfg.App.Env != "production",
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(billingHandler).
		Register(inventoryHandler).
		Register(posHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
