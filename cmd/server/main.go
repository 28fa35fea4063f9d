package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/Geogebrd/scaond-hand-platform/internal/application/cart"
	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	identityapp "github.com/Geogebrd/scaond-hand-platform/internal/application/identity"
	messageapp "github.com/Geogebrd/scaond-hand-platform/internal/application/message"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/cache"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/config"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/event"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/metrics"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/storage"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/telemetry"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/handler"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/middleware"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.App.Name,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   cfg.Database.Driver,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
		if err := registry.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	sessions, err := cache.NewSessionStoreFactory(cfg.Redis, cfg.Session, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}
	defer func() {
		_ = sessions.Close()
	}()

	eventBus := event.NewInMemoryEventBus(log)
	if registry != nil {
		eventBus.SetRecorder(registry)
	}
	if cfg.Kafka.Enabled() {
		forwarder := event.NewKafkaForwarder(event.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), 5*time.Second, log)
		eventBus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Error("Error closing Kafka writer", zap.Error(err))
			}
		}()
		log.Info("Forwarding domain events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	images, err := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.MaxSize, log)
	if err != nil {
		log.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	stockLocker := persistence.NewGormStockLocker(db.DB, cfg.Checkout.LockTimeout)

	// Application services
	authService := identityapp.NewAuthService(userRepo, sessions, log)
	authService.SetEventPublisher(eventBus)
	settingsService := identityapp.NewSettingsService(userRepo)

	productService := catalogapp.NewProductService(productRepo, images, log)
	productService.SetEventPublisher(eventBus)

	cartService := cartapp.NewService(cartRepo, productRepo, log)

	checkoutEngine := checkout.NewEngine(stockLocker, userRepo, log)
	checkoutEngine.SetEventPublisher(eventBus)
	checkoutService := checkout.NewService(checkoutEngine, cartRepo, log)
	if registry != nil {
		checkoutService.SetRecorder(registry)
	}

	orderService := tradeapp.NewOrderService(orderRepo, log)
	orderService.SetEventPublisher(eventBus)

	messageService := messageapp.NewService(messageRepo, userRepo)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Session, cfg.Cookie),
		Products:  handler.NewProductHandler(productService),
		Cart:      handler.NewCartHandler(cartService, checkoutService),
		Orders:    handler.NewOrderHandler(orderService),
		Dashboard: handler.NewDashboardHandler(productService, orderService),
		Messages:  handler.NewMessageHandler(messageService),
		Settings:  handler.NewSettingsHandler(settingsService),
		System:    handler.NewSystemHandler(sqlDB),
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine, err := router.NewEngine(router.Options{
		Logger:      log,
		HTTP:        cfg.HTTP,
		Session:     cfg.Session,
		Sessions:    sessions,
		Metrics:     registry,
		MetricsPath: cfg.Metrics.Path,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Profiling: middleware.ProfilingConfig{
			Enabled:   cfg.Profiling.Enabled,
			SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
		},
		UploadDir: images.Dir(),
	}, handlers)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	defer engine.Close()

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}

	log.Info("Server exited")
}
