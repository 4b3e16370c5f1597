// snapshotctl is the ops companion for the client runtime: it
// inspects, clears, and exports the persisted session document against
// whichever snapshot backend the box is configured with.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/logger"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/snapshot"
)

// Inspect output lands in terminals and support bundles, so the
// credential is masked there. Export keeps it: the file is a faithful
// copy of what the backing store already holds.
const redactedToken = "[REDACTED]"

func main() {
	// Parse flags
	var (
		profile  string
		logLevel string
	)

	flag.StringVar(&profile, "profile", "", "Snapshot profile to operate on (default: configured app.profile)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Logs go to stderr so inspect output stays pipeable.
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if profile != "" {
		cfg.App.Profile = profile
	}

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing snapshot store", zap.Error(err))
		}
	}()

	log.Info("Snapshot store opened",
		zap.String("backend", cfg.Snapshot.Backend),
		zap.String("profile", cfg.App.Profile),
	)

	ctx := context.Background()

	switch command {
	case "inspect":
		snap, err := store.Load(ctx)
		if err != nil {
			log.Fatal("Failed to load snapshot", zap.Error(err))
		}
		if snap == nil {
			log.Info("No snapshot stored for this profile")
			return
		}
		redacted := *snap
		if redacted.Token != "" {
			redacted.Token = redactedToken
		}
		doc, err := json.MarshalIndent(&redacted, "", "  ")
		if err != nil {
			log.Fatal("Failed to encode snapshot", zap.Error(err))
		}
		fmt.Println(string(doc))

	case "clear":
		if err := store.Clear(ctx); err != nil {
			log.Fatal("Failed to clear snapshot", zap.Error(err))
		}
		log.Info("Snapshot cleared",
			zap.String("backend", cfg.Snapshot.Backend),
			zap.String("profile", cfg.App.Profile),
		)

	case "export":
		if len(args) < 2 {
			log.Fatal("Output file required. Usage: snapshotctl export <file>")
		}
		snap, err := store.Load(ctx)
		if err != nil {
			log.Fatal("Failed to load snapshot", zap.Error(err))
		}
		if snap == nil {
			log.Fatal("No snapshot stored for this profile")
		}
		doc, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			log.Fatal("Failed to encode snapshot", zap.Error(err))
		}
		// Carries the session token; keep the copy owner-only.
		if err := os.WriteFile(args[1], doc, 0o600); err != nil {
			log.Fatal("Failed to write export", zap.Error(err))
		}
		log.Info("Snapshot exported",
			zap.String("file", args[1]),
			zap.Time("saved_at", snap.SavedAt),
		)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// openStore builds the configured backend. Unlike the runtime it never
// registers tracing: a one-shot CLI has nothing to trace.
func openStore(cfg *config.Config, log *zap.Logger) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "file":
		return snapshot.NewFileStore(cfg.Snapshot.Path, cfg.App.Profile, log)
	case "sqlite":
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err := gorm.Open(sqlite.Open(cfg.Snapshot.SQLitePath), &gorm.Config{Logger: gormLog})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Snapshot.SQLitePath, err)
		}
		if err := snapshot.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate snapshot schema: %w", err)
		}
		return snapshot.NewGormStore(db, cfg.App.Profile, log)
	case "redis":
		return snapshot.NewRedisStore(cfg.Redis, cfg.Snapshot.KeyPrefix, cfg.App.Profile, cfg.Snapshot.TTL, log)
	case "memory":
		return nil, fmt.Errorf("memory backend holds nothing between runs")
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

func printUsage() {
	fmt.Println(`Commerce Client Snapshot Tool

Usage:
  snapshotctl [flags] <command> [arguments]

Commands:
  inspect           Print the persisted snapshot (token redacted)
  clear             Delete the persisted snapshot
  export <file>     Write the raw snapshot document to a file

Flags:
  -profile string   Snapshot profile to operate on (default: configured app.profile)
  -log-level string Log level: debug, info, warn, error (default: info)

Environment Variables:
  COMMERCE_SNAPSHOT_BACKEND, COMMERCE_SNAPSHOT_PATH,
  COMMERCE_SNAPSHOT_SQLITE_PATH, COMMERCE_REDIS_HOST, COMMERCE_APP_PROFILE

Examples:
  # Show what the kiosk would restore on next boot
  snapshotctl inspect

  # Inspect another account on a shared box
  snapshotctl -profile lane2 inspect

  # Wipe a corrupted session before a support reboot
  snapshotctl clear

  # Capture the document for a bug report
  snapshotctl export /tmp/session.json`)
}
