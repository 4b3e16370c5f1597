// The commerce client runtime. One process per kiosk: it restores the
// persisted session, keeps the local state container reconciled with
// the platform over REST and the push channel, and serves a read-only
// loopback endpoint for support tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/console"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/session"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/storefront"
	syncapp "github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/sync"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/api"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/channel"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/logger"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/interfaces/http/introspection"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

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

	log.Info("Starting commerce client runtime",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("profile", cfg.App.Profile),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers no-op when disabled, so wiring is unconditional.
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
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log shipping", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Tee zap through OTLP so kiosk logs land at the collector too.
	if loggerProvider.IsEnabled() {
		bridgeLevel, perr := zapcore.ParseLevel(cfg.Log.Level)
		if perr != nil {
			bridgeLevel = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          bridgeLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// Components hold a nil *RuntimeMetrics when telemetry is off; every
	// recording method is nil-safe.
	var metrics *telemetry.RuntimeMetrics
	if meterProvider.IsEnabled() {
		metrics, err = telemetry.NewRuntimeMetrics(telemetry.RuntimeMetricsConfig{
			Meter:  meterProvider.Meter(telemetry.TracerName),
			Logger: log,
		})
		if err != nil {
			log.Fatal("Failed to initialize runtime metrics", zap.Error(err))
		}
	}

	// Open the snapshot store for this profile
	snapStore, err := openSnapshotStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer func() {
		if err := snapStore.Close(); err != nil {
			log.Error("Error closing snapshot store", zap.Error(err))
		}
	}()
	log.Info("Snapshot store ready",
		zap.String("backend", cfg.Snapshot.Backend),
		zap.String("profile", cfg.App.Profile),
	)

	// State container, rehydrated before anything reads it
	container := store.New(log,
		store.WithSnapshotStore(snapStore, cfg.Snapshot.Backend),
		store.WithMetrics(metrics),
	)
	snap, err := snapStore.Load(ctx)
	if err != nil {
		log.Warn("Snapshot load failed, starting cold", zap.Error(err))
	}
	container.Restore(snap)

	// Platform REST client; the container is the bearer-token source
	apiClient, err := api.NewClient(cfg.API, container, api.WithMetrics(metrics))
	if err != nil {
		log.Fatal("Failed to initialize platform client", zap.Error(err))
	}

	// Reconciler folds push events into the container and runs the
	// refetch hooks after every reconnect
	reconciler := syncapp.NewReconciler(container, log, syncapp.WithMetrics(metrics))

	ch, err := channel.NewClient(cfg.Channel, reconciler, log, channel.WithMetrics(metrics))
	if err != nil {
		log.Fatal("Failed to initialize live channel", zap.Error(err))
	}

	sessionManager, err := session.NewManager(apiClient, container, ch, log)
	if err != nil {
		log.Fatal("Failed to initialize session manager", zap.Error(err))
	}
	reconciler.OnForcedSignOut(sessionManager.ForcedSignOut)

	// Services the runtime drives itself: each re-pulls its concern
	// after a reconnect since dropped events are never replayed. The
	// rest of the action API is constructed by the embedding
	// application.
	cartService := storefront.NewCartService(apiClient, container, log)
	notificationService := console.NewNotificationService(apiClient, container, log)
	analyticsService := console.NewAnalyticsService(apiClient, container, log)
	cartService.RegisterRefetch(reconciler)
	notificationService.RegisterRefetch(reconciler)
	analyticsService.RegisterRefetch(reconciler)

	// Loopback introspection endpoint
	var introServer *introspection.Server
	if cfg.Introspection.Enabled {
		introServer, err = introspection.New(cfg.Introspection, cfg.App.Env, introspection.Options{
			Container:   container,
			Version:     version,
			ServiceName: cfg.Telemetry.ServiceName,
			Tracing:     cfg.Telemetry.Enabled,
			Logger:      log,
		})
		if err != nil {
			log.Fatal("Failed to build introspection server", zap.Error(err))
		}
		if err := introServer.Start(); err != nil {
			log.Fatal("Failed to start introspection server", zap.Error(err))
		}
	}

	// Validate the persisted credential and open the channel. Transport
	// failures keep the credential in place, so they only warn: the
	// next boot retries.
	if err := sessionManager.RestoreSession(ctx); err != nil {
		log.Warn("Session restore deferred", zap.Error(err))
	}

	// Wait for termination
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down runtime...")

	// Channel first so no event mutates state mid-teardown. Done is
	// closed even if the channel never opened.
	ch.Close()
	<-ch.Done()

	if introServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := introServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Introspection server forced to shutdown", zap.Error(err))
		}
		cancel()
	}

	log.Info("Runtime exited gracefully")
}

// openSnapshotStore builds the persistence backend named by config.
// Backend names were validated at load time; the default arm guards
// against drift between the validator and this switch.
func openSnapshotStore(cfg *config.Config, log *zap.Logger) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "file":
		return snapshot.NewFileStore(cfg.Snapshot.Path, cfg.App.Profile, log)
	case "sqlite":
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err := gorm.Open(sqlite.Open(cfg.Snapshot.SQLitePath), &gorm.Config{Logger: gormLog})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Snapshot.SQLitePath, err)
		}
		if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
			tracingCfg := telemetry.DefaultDBTracingConfig()
			tracingCfg.Enabled = true
			if err := telemetry.NewDBTracingPlugin(tracingCfg, log).RegisterOtelGorm(db); err != nil {
				return nil, fmt.Errorf("register snapshot store tracing: %w", err)
			}
		}
		if err := snapshot.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate snapshot schema: %w", err)
		}
		return snapshot.NewGormStore(db, cfg.App.Profile, log)
	case "redis":
		return snapshot.NewRedisStore(cfg.Redis, cfg.Snapshot.KeyPrefix, cfg.App.Profile, cfg.Snapshot.TTL, log)
	case "memory":
		return snapshot.NewMemoryStore(log), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
