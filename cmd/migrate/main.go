package main

// Run database migrations:
//   go run ./cmd/migrate [-command up|down|status]

import (
	"context"
	"flag"
	"os"

	"outfit-backend/internal/shared/config"
	"outfit-backend/internal/shared/storage/db"
	"outfit-backend/internal/shared/telemetry"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("db.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		telemetry.Error("db.migrate_failed", map[string]any{"command": *command, "error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("db.migrate_complete", map[string]any{"command": *command})
}
