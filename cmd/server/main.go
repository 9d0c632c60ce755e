package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/wms/backend/internal/application/catalog"
	countingapp "github.com/wms/backend/internal/application/counting"
	ledgerapp "github.com/wms/backend/internal/application/ledger"
	outboundapp "github.com/wms/backend/internal/application/outbound"
	receivingapp "github.com/wms/backend/internal/application/receiving"
	transferapp "github.com/wms/backend/internal/application/transfer"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			WMS Backend API
//	@version		1.0
//	@description	Warehouse stock ledger and fulfillment workflow API

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
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

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	binRepo := persistence.NewGormBinRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	lotRepo := persistence.NewGormLotRepository(db.DB)
	serialRepo := persistence.NewGormSerialRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	goodsReceiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	putAwayRepo := persistence.NewGormPutAwayRepository(db.DB)
	pickListRepo := persistence.NewGormPickListRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	cycleCountRepo := persistence.NewGormCycleCountRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)

	// Transaction scope binds ledger writes to a single database transaction
	scope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	itemService := catalogapp.NewItemService(itemRepo)
	warehouseService := catalogapp.NewWarehouseService(warehouseRepo, locationRepo, binRepo)
	validator := catalogapp.NewMasterDataValidator(itemRepo, warehouseRepo, locationRepo, binRepo)
	ledgerService := ledgerapp.NewLedgerService(scope, stockLevelRepo, transactionRepo, itemRepo, validator)
	reservationService := ledgerapp.NewReservationService(scope, reservationRepo, validator)
	reservationService.SetDefaultExpiration(cfg.Reservation.DefaultExpiration)
	expirationService := ledgerapp.NewReservationExpirationService(scope, reservationRepo, log)
	receivingService := receivingapp.NewReceivingService(
		purchaseOrderRepo, goodsReceiptRepo, putAwayRepo,
		itemRepo, lotRepo, serialRepo, sequenceRepo,
		ledgerService,
	)
	receivingService.SetAllowOverReceipt(cfg.Receiving.AllowOverReceipt)
	pickingService := outboundapp.NewPickingService(scope, pickListRepo, itemRepo)
	transferService := transferapp.NewTransferService(scope, transferRepo, itemRepo)
	countingService := countingapp.NewCountingService(scope, cycleCountRepo, adjustmentRepo, itemRepo)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store for event handlers. Redis survives restarts;
	// the in-memory store is sufficient for single-instance deployments.
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = store
		log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Register event handlers
	// Stock below reorder point -> replenishment alert
	reorderAlertHandler := ledgerapp.NewReorderAlertHandler(log)
	idempotentReorderHandler := event.NewIdempotentHandler(reorderAlertHandler, idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: cfg.Event.IdempotencyEnabled,
		}),
	)
	eventBus.Subscribe(idempotentReorderHandler)

	log.Info("Event handlers registered",
		zap.Strings("reorder_alert_events", reorderAlertHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	itemService.SetEventPublisher(eventBus)
	warehouseService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)
	reservationService.SetEventPublisher(eventBus)
	expirationService.SetEventPublisher(eventBus)
	receivingService.SetEventPublisher(eventBus)
	pickingService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	countingService.SetEventPublisher(eventBus)

	// Initialize maintenance scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMaintenanceExecutor(log)
		executor.Register(scheduler.JobTypeReservationExpiry, func(ctx context.Context) error {
			stats, err := expirationService.ExpireReservations(ctx)
			if err != nil {
				return err
			}
			if stats.TotalExpired > 0 {
				log.Info("Reservation expiry sweep finished",
					zap.Int("expired", stats.TotalExpired),
					zap.Int("released", stats.Released),
					zap.Int("failed", stats.Failed),
				)
			}
			return nil
		})
		executor.Register(scheduler.JobTypeOverdueTransfers, func(ctx context.Context) error {
			flagged, err := transferService.FlagOverdueTransfers(ctx, time.Now())
			if err != nil {
				return err
			}
			if flagged > 0 {
				log.Info("Overdue transfer check finished", zap.Int("flagged", flagged))
			}
			return nil
		})

		schedulerConfig := scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}
		maintenanceScheduler := scheduler.NewScheduler(schedulerConfig, executor, log)
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()

		sweepConfig := scheduler.SweepTriggerConfig{
			ReservationSweepInterval: cfg.Reservation.SweepInterval,
			OverdueCheckInterval:     cfg.Transfer.OverdueCheckInterval,
		}
		if !cfg.Reservation.AutoExpireEnabled {
			sweepConfig.ReservationSweepInterval = 0
		}
		sweepTrigger := scheduler.NewSweepTrigger(sweepConfig, maintenanceScheduler, log)
		if err := sweepTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
		defer func() {
			if err := sweepTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping sweep trigger", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("reservation_sweep_interval", sweepConfig.ReservationSweepInterval),
			zap.Duration("overdue_check_interval", sweepConfig.OverdueCheckInterval),
		)
	}

	// Initialize HTTP handlers
	itemHandler := handler.NewItemHandler(itemService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	stockHandler := handler.NewStockHandler(ledgerService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	receivingHandler := handler.NewReceivingHandler(receivingService)
	pickingHandler := handler.NewPickingHandler(pickingService)
	transferHandler := handler.NewTransferHandler(transferService)
	countingHandler := handler.NewCountingHandler(countingService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant context is mandatory on all API routes. The gateway
	// authenticates callers upstream and stamps X-Tenant-ID / X-User-ID.
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Catalog domain (items, warehouses, locations, bins)
	catalogRoutes := router.NewDomainGroup("catalog", "")
	catalogRoutes.POST("/items", itemHandler.Create)
	catalogRoutes.GET("/items", itemHandler.List)
	catalogRoutes.GET("/items/sku/:sku", itemHandler.GetBySKU)
	catalogRoutes.GET("/items/:id", itemHandler.GetByID)
	catalogRoutes.PUT("/items/:id", itemHandler.Update)
	catalogRoutes.PUT("/items/:id/replenishment", itemHandler.SetReplenishment)
	catalogRoutes.POST("/items/:id/activate", itemHandler.Activate)
	catalogRoutes.POST("/items/:id/deactivate", itemHandler.Deactivate)
	catalogRoutes.POST("/items/:id/discontinue", itemHandler.Discontinue)

	catalogRoutes.POST("/warehouses", warehouseHandler.Create)
	catalogRoutes.GET("/warehouses", warehouseHandler.List)
	catalogRoutes.GET("/warehouses/:id", warehouseHandler.GetByID)
	catalogRoutes.PUT("/warehouses/:id", warehouseHandler.Update)
	catalogRoutes.POST("/warehouses/:id/default", warehouseHandler.SetDefault)
	catalogRoutes.POST("/warehouses/:id/activate", warehouseHandler.Activate)
	catalogRoutes.POST("/warehouses/:id/deactivate", warehouseHandler.Deactivate)
	catalogRoutes.POST("/warehouses/:id/locations", warehouseHandler.CreateLocation)
	catalogRoutes.GET("/warehouses/:id/locations", warehouseHandler.ListLocations)
	catalogRoutes.POST("/locations/:id/bins", warehouseHandler.CreateBin)
	catalogRoutes.GET("/locations/:id/bins", warehouseHandler.ListBins)

	// Ledger domain (stock levels, transactions, reservations)
	ledgerRoutes := router.NewDomainGroup("ledger", "")
	ledgerRoutes.GET("/stock", stockHandler.List)
	ledgerRoutes.GET("/stock/lookup", stockHandler.Lookup)
	ledgerRoutes.GET("/stock/items/:item_id", stockHandler.ListByItem)
	ledgerRoutes.GET("/stock/items/:item_id/availability", stockHandler.GetAvailability)
	ledgerRoutes.POST("/stock/receive", stockHandler.Receive)
	ledgerRoutes.POST("/stock/issue", stockHandler.Issue)
	ledgerRoutes.POST("/stock/adjust", stockHandler.Adjust)
	ledgerRoutes.GET("/stock/transactions", stockHandler.ListTransactions)

	ledgerRoutes.POST("/reservations", reservationHandler.Create)
	ledgerRoutes.GET("/reservations", reservationHandler.List)
	ledgerRoutes.GET("/reservations/:id", reservationHandler.GetByID)
	ledgerRoutes.POST("/reservations/:id/release", reservationHandler.Release)
	ledgerRoutes.POST("/reservations/:id/consume", reservationHandler.Consume)

	// Receiving domain (purchase orders, goods receipts, put-away)
	receivingRoutes := router.NewDomainGroup("receiving", "")
	receivingRoutes.POST("/purchase-orders", receivingHandler.CreatePurchaseOrder)
	receivingRoutes.GET("/purchase-orders", receivingHandler.ListPurchaseOrders)
	receivingRoutes.GET("/purchase-orders/:id", receivingHandler.GetPurchaseOrder)
	receivingRoutes.POST("/purchase-orders/:id/approve", receivingHandler.ApprovePurchaseOrder)
	receivingRoutes.POST("/purchase-orders/:id/close", receivingHandler.ClosePurchaseOrder)
	receivingRoutes.POST("/purchase-orders/:id/cancel", receivingHandler.CancelPurchaseOrder)

	receivingRoutes.POST("/receipts", receivingHandler.CreateGoodsReceipt)
	receivingRoutes.GET("/receipts", receivingHandler.ListGoodsReceipts)
	receivingRoutes.GET("/receipts/:id", receivingHandler.GetGoodsReceipt)
	receivingRoutes.POST("/receipts/:id/confirm", receivingHandler.ConfirmGoodsReceipt)

	receivingRoutes.GET("/putaways", receivingHandler.ListOpenPutAways)
	receivingRoutes.GET("/putaways/:id", receivingHandler.GetPutAwayTask)
	receivingRoutes.POST("/putaways/:id/start", receivingHandler.StartPutAway)
	receivingRoutes.PUT("/putaways/:id/items/:line_id/bin", receivingHandler.AssignPutAwayBin)
	receivingRoutes.POST("/putaways/:id/items/:line_id/complete", receivingHandler.CompletePutAwayItem)
	receivingRoutes.POST("/putaways/:id/cancel", receivingHandler.CancelPutAway)

	// Outbound domain (pick lists)
	outboundRoutes := router.NewDomainGroup("outbound", "")
	outboundRoutes.POST("/pick-lists", pickingHandler.Create)
	outboundRoutes.GET("/pick-lists", pickingHandler.List)
	outboundRoutes.GET("/pick-lists/:id", pickingHandler.GetByID)
	outboundRoutes.POST("/pick-lists/:id/start", pickingHandler.Start)
	outboundRoutes.POST("/pick-lists/:id/lines/:line_id/pick", pickingHandler.RecordPick)
	outboundRoutes.POST("/pick-lists/:id/complete", pickingHandler.Complete)
	outboundRoutes.POST("/pick-lists/:id/cancel", pickingHandler.Cancel)

	// Transfer domain (inter-warehouse moves)
	transferRoutes := router.NewDomainGroup("transfer", "")
	transferRoutes.POST("/transfers", transferHandler.Create)
	transferRoutes.GET("/transfers", transferHandler.List)
	transferRoutes.GET("/transfers/:id", transferHandler.GetByID)
	transferRoutes.POST("/transfers/:id/ship", transferHandler.Ship)
	transferRoutes.POST("/transfers/:id/receive", transferHandler.Receive)
	transferRoutes.POST("/transfers/:id/cancel", transferHandler.Cancel)

	// Counting domain (cycle counts, adjustments)
	countingRoutes := router.NewDomainGroup("counting", "")
	countingRoutes.POST("/cycle-counts", countingHandler.CreateCycleCount)
	countingRoutes.GET("/cycle-counts", countingHandler.ListCycleCounts)
	countingRoutes.GET("/cycle-counts/:id", countingHandler.GetCycleCount)
	countingRoutes.POST("/cycle-counts/:id/start", countingHandler.StartCounting)
	countingRoutes.POST("/cycle-counts/:id/lines/:line_id/record", countingHandler.RecordCount)
	countingRoutes.POST("/cycle-counts/:id/submit", countingHandler.SubmitCycleCount)
	countingRoutes.POST("/cycle-counts/:id/approve", countingHandler.ApproveCycleCount)
	countingRoutes.POST("/cycle-counts/:id/reject", countingHandler.RejectCycleCount)
	countingRoutes.POST("/cycle-counts/:id/cancel", countingHandler.CancelCycleCount)

	countingRoutes.POST("/adjustments", countingHandler.RequestAdjustment)
	countingRoutes.GET("/adjustments/pending", countingHandler.ListPendingAdjustments)
	countingRoutes.GET("/adjustments/:id", countingHandler.GetAdjustment)
	countingRoutes.POST("/adjustments/:id/approve", countingHandler.ApproveAdjustment)
	countingRoutes.POST("/adjustments/:id/reject", countingHandler.RejectAdjustment)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(ledgerRoutes).
		Register(receivingRoutes).
		Register(outboundRoutes).
		Register(transferRoutes).
		Register(countingRoutes)

	// Setup routes
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
