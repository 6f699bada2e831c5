package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/config"
	"github.com/Mukungiisaac/Sakeja/internal/db"
	"github.com/Mukungiisaac/Sakeja/internal/logger"
	"github.com/Mukungiisaac/Sakeja/internal/metrics"
	"github.com/Mukungiisaac/Sakeja/internal/schema"
	"github.com/Mukungiisaac/Sakeja/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        *gin.Engine
	server        *http.Server
	logger        *slog.Logger
	db            *bun.DB
	meterProvider *sdkmetric.MeterProvider
	closers       []closer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "commit", GitCommit, "built", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	meterProvider, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize OTel metrics", "error", err)
	}

	appMetrics, err := metrics.New(ServiceName)
	if err != nil {
		log.Fatalf("failed to create metrics: %v", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	meter := otel.Meter(ServiceName)
	if err := appMetrics.Database.RegisterDB(database.DB, meter); err != nil {
		slogLogger.Warn("failed to register db pool metrics", "error", err)
	}
	if err := metrics.RegisterRuntime(meter); err != nil {
		slogLogger.Warn("failed to register runtime metrics", "error", err)
	}

	if err := db.RunMigrations(ctx, database, schema.Tables()...); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	app := &App{
		config:        cfg,
		logger:        slogLogger,
		db:            database,
		meterProvider: meterProvider,
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg, database, appMetrics, slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	app.addCloser(closeSessions)

	photos, closePhotos, err := newPhotoStore(ctx, cfg.Storage, slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize photo store: %v", err)
	}
	app.addCloser(closePhotos)

	publisher := newPublisher(cfg.NATS, appMetrics, slogLogger)
	app.addCloser(func(context.Context) error { return publisher.Close() })

	router, err := NewRouter(Deps{
		Config:    cfg,
		Logger:    slogLogger,
		Metrics:   appMetrics,
		DB:        database,
		Sessions:  sessions,
		Photos:    photos,
		Publisher: publisher,
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}
	app.router = router

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) addCloser(c closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

func (a *App) Run() error {
	srv := a.config.Server
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", srv.Port),
		Handler:      a.router,
		ReadTimeout:  seconds(srv.ReadTimeout, 15),
		WriteTimeout: seconds(srv.WriteTimeout, 30),
		IdleTimeout:  seconds(srv.IdleTimeout, 60),
	}

	a.logger.Info("server starting", "port", srv.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	errs = append(errs, telemetry.Shutdown(ctx, a.meterProvider, a.logger))
	db.Close(a.db)

	return errors.Join(errs...)
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
