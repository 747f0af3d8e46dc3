package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emotune/emotune/internal/config"
	"github.com/emotune/emotune/internal/database"
)

// migrateConfig is read separately so the tool runs without the API secrets
type migrateConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Environment string `envconfig:"ENV" default:"development"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", database.ActionUp, "Migration action: up, down, version, force")
	version := flag.Int("version", 0, "Target version (for force action)")
	flag.Parse()

	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, databaseName(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	logger.Info("running migration", slog.String("action", *action))
	result, err := migrator.Run(*action, *version)
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", *action, err)
	}

	logger.Info("migration finished", slog.String("action", *action), slog.String("result", result))
	return nil
}

// databaseName extracts the database from a postgres URL, falling back to "emotune"
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "emotune"
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return "emotune"
}
