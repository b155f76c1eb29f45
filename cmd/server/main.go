package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	appidentity "github.com/storefront/backend/internal/application/identity"
	appinventory "github.com/storefront/backend/internal/application/inventory"
	appreport "github.com/storefront/backend/internal/application/report"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Catalog, cart, checkout and back-office API of the storefront
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const serviceName = "storefront-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, serviceName)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(
		cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		cfg.Telemetry.DBLogFullSQL,
		cfg.Telemetry.DBSlowQueryThresh,
		cfg.Database.Driver,
	), log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	threshold := cfg.Inventory.LowStockThreshold

	var meter metric.Meter
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter(serviceName)
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meter,
			Logger: log,
			Stock:  telemetry.NewGormStockMetricsProvider(db.DB, threshold),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		defer func() {
			if err := businessMetrics.Stop(); err != nil {
				log.Warn("Error stopping business metrics", zap.Error(err))
			}
		}()
	}

	eventBus := event.NewInMemoryEventBus(log)
	audit := event.NewAuditHandler(log)
	eventBus.Subscribe(audit, audit.EventTypes()...)
	lowStock := appinventory.NewLowStockHandler(productRepo, threshold, log)
	eventBus.Subscribe(lowStock, lowStock.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := newTokenBlacklist(ctx, cfg, log)

	productService := appcatalog.NewProductService(productRepo, categoryRepo, reviewRepo, log)
	productService.SetObjectStorage(objects)
	productService.SetEventPublisher(eventBus)
	categoryService := appcatalog.NewCategoryService(categoryRepo)

	orderService := apptrade.NewOrderService(scope, orderRepo, productRepo, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetObjectStorage(objects)
	orderService.SetIdempotencyStore(idempotencyStore, cfg.Checkout.IdempotencyTTL)
	if businessMetrics != nil {
		orderService.SetBusinessMetrics(businessMetrics)
	}

	handlers := router.Handlers{
		Health: handler.NewHealthHandler(db, version),
		Auth:   handler.NewAuthHandler(appidentity.NewAuthService(userRepo, jwtService, blacklist, log)),
		Catalog: handler.NewCatalogHandler(
			productService,
			categoryService,
			appcatalog.NewReviewService(reviewRepo, productRepo, log),
		),
		Cart:  handler.NewCartHandler(appcart.NewCartService(scope, cartRepo, productRepo, log)),
		Order: handler.NewOrderHandler(orderService),
		AdminCatalog: handler.NewAdminCatalogHandler(
			productService,
			categoryService,
			appcatalog.NewImageService(productRepo, objects, cfg.Storage.PresignExpiration, log),
			appinventory.NewLedgerService(scope, productRepo, threshold, log),
		),
		AdminOrder: handler.NewAdminOrderHandler(orderService),
		AdminUser:  handler.NewAdminUserHandler(appidentity.NewUserService(userRepo, log)),
		Report: handler.NewReportHandler(
			appreport.NewDashboardService(productRepo, orderRepo, userRepo, reportRepo, threshold, log),
			appreport.NewSnapshotService(reportRepo),
		),
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.HTTP.HSTSEnabled

	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	engine := router.NewEngine(router.Options{
		Logger:          log,
		JWTService:      jwtService,
		TokenBlacklist:  blacklist,
		AuthRateLimiter: authLimiter,
		CORS:            cors,
		Security:        &security,
		MaxBodySize:     cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Meter: meter,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// openDatabase connects and brings the schema up to date. In-memory sqlite
// is created from the models; everything else runs the migrations when
// auto-migrate is on.
func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	switch {
	case cfg.Database.IsSQLite() && cfg.Database.Path == ":memory:":
		err = db.AutoMigrate(ctx)
	case cfg.Database.AutoMigrate:
		err = runMigrations(cfg, log)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrations(cfg *config.Config, log *zap.Logger) error {
	m, err := migration.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return m.Up()
}

func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.ObjectStorageService, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, product images are kept in memory")
		return storage.NewStubObjectStorage(), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Failed to ensure image bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3, nil
}

// newTokenBlacklist shares revoked tokens through redis when it is
// configured so that logout holds across replicas
func newTokenBlacklist(ctx context.Context, cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	if !cfg.Redis.Enabled {
		return auth.NewInMemoryTokenBlacklist()
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis, 5*time.Second)
	if err != nil {
		log.Warn("Redis unavailable, revoked tokens are kept in memory", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	return auth.NewRedisTokenBlacklist(client)
}
