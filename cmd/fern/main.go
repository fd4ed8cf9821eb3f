package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/repositories/profilerow"
	"github.com/Ramsey-B/fern/internal/repositories/traveler"
	"github.com/Ramsey-B/fern/pkg/assembler"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/extractors"
	"github.com/Ramsey-B/fern/pkg/health"
	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/raw"
	"github.com/Ramsey-B/fern/pkg/reconcile"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/routes/deadletters"
	"github.com/Ramsey-B/fern/pkg/routes/imports"
	"github.com/Ramsey-B/fern/pkg/routes/travelers"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validation"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, syncLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger()

	tp, err := tracing.NewProvider(context.Background(), tracing.ExporterConfig{
		Enabled:  cfg.OTLPEnabled,
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  cfg.OTLPTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := raw.NewReader()
	if err := reader.Validate(); err != nil {
		return fmt.Errorf("invalid field table: %w", err)
	}

	sqlDB, err := sqlx.Open(cfg.DatabaseDriver, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	db := database.NewDatabaseInstance(sqlDB, logger, database.WithLeakThreshold(cfg.DatabaseTxLeakThreshold))

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(startup.Func{
		Name: "database",
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			return migrateDatabase(cfg, sqlDB, logger)
		},
		OnStop: func(context.Context) error { return db.Close() },
	})

	checker := health.NewChecker(version).AddCheck("database", db.PingContext)

	var (
		locker importer.Locker = redis.NoopLocker{}
		dlq    *redis.DeadLetterQueue
	)
	if cfg.RedisEnabled {
		client := redis.NewClient(redis.ConfigFrom(cfg), logger)
		boot.AddDependency(client)
		locker = redis.NewLocker(client, "", cfg.ProfileLockTTL, cfg.ProfileLockTTL)
		dlq = redis.NewDeadLetterQueue(client, cfg.RedisDLQStream, logger)
		checker.AddOptionalCheck("redis", client.Ping)
	}

	producer := kafka.NewProducer(kafka.ProducerConfigFrom(cfg), logger)
	defer func() { _ = producer.Close() }()

	travelerRepo := traveler.NewRepository(db, logger)
	rowRepo := profilerow.NewRepository(db, logger)

	imp := importer.NewImporter(logger, importer.Options{
		Source:                cfg.ImportSource,
		DefaultOrganizationID: cfg.DefaultOrganizationID,
		Concurrency:           cfg.ImportConcurrency,
	}, importer.Dependencies{
		Assembler:  assembler.NewAssembler(logger, extractors.NewExtractor(logger, reader)),
		Checker:    validation.NewChecker(logger),
		Travelers:  travelerRepo,
		Reconciler: reconcile.NewEngine(logger, rowRepo),
		Locker:     locker,
		Emitter:    events.NewEmitter(producer, logger),
	})

	if cfg.KafkaConsumerEnabled {
		var onFailure kafka.FailureHandler
		if dlq != nil {
			onFailure = importer.DeadLetter(dlq)
		}
		consumer := kafka.NewConsumer(cfg, logger, imp.HandleMessage, onFailure)
		boot.AddDependency(consumer)
		checker.AddOptionalCheck("kafka", func(context.Context) error {
			if !consumer.Health() {
				return errors.New("consumer not running")
			}
			return nil
		})
	}

	e := newServer(cfg, logger)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	api := e.Group("/api/v1")
	imports.NewHandler(imp).Register(api.Group("/imports"))
	travelers.NewHandler(travelerRepo, rowRepo).Register(api.Group("/travelers"))
	if dlq != nil {
		deadletters.NewHandler(dlq).Register(api.Group("/dead-letters"))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := boot.Start(ctx); err != nil {
		return err
	}
	checker.SetReady(true)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.WithError(err).Error("HTTP server stopped")
	}

	checker.SetReady(false)
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down HTTP server")
	}
	return boot.Stop(shutdownCtx)
}

func newLogger(cfg config.Config) (ectologger.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	zapLogger = zapLogger.With(zap.String("app", cfg.AppName), zap.String("version", version))
	return zapadapter.NewZapEctoLogger(zapLogger, nil), func() { _ = zapLogger.Sync() }, nil
}

func migrateDatabase(cfg config.Config, sqlDB *sqlx.DB, logger ectologger.Logger) error {
	driver, err := postgres.WithInstance(sqlDB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	return database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	}).Migrate(cfg.DatabaseName, driver)
}

func newServer(cfg config.Config, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(cfg.MaxBodyBytes))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowOrigins}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	return e
}
