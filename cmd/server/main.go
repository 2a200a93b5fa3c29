package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/backoffice/internal/application/dispatch"
	"github.com/erp/backoffice/internal/application/export"
	financeapp "github.com/erp/backoffice/internal/application/finance"
	identityapp "github.com/erp/backoffice/internal/application/identity"
	masterdataapp "github.com/erp/backoffice/internal/application/masterdata"
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	"github.com/erp/backoffice/internal/contract"
	domainmd "github.com/erp/backoffice/internal/domain/masterdata"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/printing"
	"github.com/erp/backoffice/internal/infrastructure/storage"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/erp/backoffice/docs"
)

//	@title			ERP Back Office API
//	@version		1.0
//	@description	Back office API for customers, suppliers, master data and finance vouchers.
//	@description	Every family is served by POST /api/{family} with a {mode, parameters} envelope.

//	@contact.name	API Support
//	@contact.email	support@erp.example.com

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Telemetry comes first so its zap core can join the process logger
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	providers, err := telemetry.NewProviders(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, providers.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ERP Back Office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
		zap.Bool("telemetry", providers.IsEnabled()),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Profiler unavailable", zap.Error(err))
	} else if profiler.IsEnabled() {
		providers.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}

	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare schema", zap.Error(err))
	}
	if cfg.App.AdminPassword != "" {
		if err := persistence.Seed(context.Background(), db.DB, persistence.SeedOptions{
			AdminUsername: cfg.App.AdminUsername,
			AdminPassword: cfg.App.AdminPassword,
		}); err != nil {
			log.Fatal("Failed to seed reference data", zap.Error(err))
		}
	}

	// Cache store and token blacklist share Redis when it is reachable
	store, err := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if rs, ok := store.(*cache.RedisStore); ok {
		blacklist = auth.NewRedisTokenBlacklist(rs.Client())
	}

	objects, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize attachment storage", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(providers.Meter("erp-backoffice"))
	if err != nil {
		log.Warn("Business metrics unavailable", zap.Error(err))
		businessMetrics = nil
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	cityRepo := persistence.NewGormCityRepository(db.DB)
	lookupRepo := persistence.NewGormLookupRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	pettyCashRepo := persistence.NewGormPettyCashRepository(db.DB)
	paymentVoucherRepo := persistence.NewGormPaymentVoucherRepository(db.DB)
	leaseInvoiceRepo := persistence.NewGormLeaseInvoiceRepository(db.DB)
	leaseReceiptRepo := persistence.NewGormLeaseReceiptRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	numbers := persistence.NewGormNumberGenerator(db.DB)
	tx := persistence.NewGormTransactor(db.DB)

	lookups := cache.NewCachedLookups(lookupRepo, cityRepo, store, cfg.Redis.CacheTTL)

	// Finance services are built first: partner deletes consult their usage counts
	leaseInvoiceService := financeapp.NewLeaseInvoiceService(leaseInvoiceRepo, customerRepo, numbers, tx, businessMetrics)
	leaseReceiptService := financeapp.NewLeaseReceiptService(leaseReceiptRepo, leaseInvoiceRepo, customerRepo, numbers, tx, businessMetrics)
	paymentVoucherService := financeapp.NewPaymentVoucherService(paymentVoucherRepo, supplierRepo, numbers, tx, businessMetrics)
	pettyCashService := financeapp.NewPettyCashService(pettyCashRepo, numbers, tx, businessMetrics)

	attachmentService := masterdataapp.NewAttachmentService(attachmentRepo, lookups, objects)
	customerService := partnerapp.NewCustomerService(customerRepo, lookups, cityRepo, leaseInvoiceService, attachmentService)
	supplierService := partnerapp.NewSupplierService(supplierRepo, lookups, cityRepo, paymentVoucherService, attachmentService)
	attachmentService.RegisterOwner(domainmd.OwnerCustomer, customerService.Exists)
	attachmentService.RegisterOwner(domainmd.OwnerSupplier, supplierService.Exists)
	attachmentService.RegisterOwner(domainmd.OwnerPaymentVoucher, paymentVoucherService.Exists)

	cityService := masterdataapp.NewCityService(cityRepo, lookups, lookups)
	lookupService := masterdataapp.NewLookupService(lookups)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, businessMetrics, log)

	validator := contract.NewValidator()
	dispatcher := dispatch.NewFromServices(validator, dispatch.Services{
		Customers:       customerService,
		Suppliers:       supplierService,
		Cities:          cityService,
		Lookups:         lookupService,
		Attachments:     attachmentService,
		PettyCash:       pettyCashService,
		PaymentVouchers: paymentVoucherService,
		LeaseInvoices:   leaseInvoiceService,
		LeaseReceipts:   leaseReceiptService,
	})

	var printer export.DocumentPrinter
	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Warn("PDF rendering disabled", zap.Error(err))
		} else {
			defer func() { _ = renderer.Close() }()
			docs, err := printing.NewDocumentPrinter(renderer, printing.DocumentPrinterConfig{
				CompanyName:  cfg.Printing.CompanyName,
				CurrencyCode: cfg.Printing.CurrencyCode,
				PaperSize:    printing.PaperSizeA4,
				Logger:       log,
			})
			if err != nil {
				log.Fatal("Failed to initialize document printer", zap.Error(err))
			}
			printer = docs
		}
	}
	exportService := export.NewService(export.Sources{
		Customers:       customerService.List,
		Suppliers:       supplierService.List,
		PaymentVouchers: paymentVoucherService.List,
		PaymentVoucher:  paymentVoucherService.Get,
		PettyCash:       pettyCashService.Get,
		LeaseReceipt:    leaseReceiptService.Get,
	}, printer)

	// Prometheus registry served on /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := middleware.NewHTTPMetrics(registry, cfg.App.Name)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
		"cache": func(ctx context.Context) error {
			_, _, err := store.Get(ctx, "health")
			return err
		},
	})

	jwtCfg := middleware.DefaultJWTConfig(jwtService, blacklist)
	jwtCfg.Logger = log

	r := router.New(router.Config{
		Logger:         log,
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		Tracing:        providers.IsEnabled(),
		Swagger:        cfg.Swagger.Enabled,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		JWT:            jwtCfg,
		Health:         systemHandler.Health,
	})

	authHandler := handler.NewAuthHandler(authService, validator)
	var loginLimiter *middleware.RateLimiter
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		defer loginLimiter.Stop()
		authHandler.LimitLogin(middleware.RateLimit(loginLimiter))
	}

	r.Register(authHandler).
		Register(handler.NewExportHandler(exportService)).
		Register(systemHandler).
		Register(handler.NewFamilyHandler(dispatcher))
	engine := r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}

// prepareSchema brings the schema up to date. SQLite development databases
// use AutoMigrate, everything else runs the embedded migrations.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.AutoMigrate || cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

func newObjectStorage(cfg *config.Config, log *zap.Logger) (masterdataapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Info("Attachment storage disabled, keeping files in memory")
		return storage.NewMemoryStorage(), nil
	}
	return storage.NewS3ObjectStorage(context.Background(), &cfg.Storage, storage.WithLogger(log))
}
