package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
)

func main() {
	status := flag.Bool("status", false, "Print the state of every migration without applying anything")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *status {
		if err := postgres.MigrationStatus(ctx, db, logger); err != nil {
			logger.Fatalw("Failed to read migration status", "error", err)
		}
		return
	}

	logger.Info("Running database migrations...")
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err)
	}

	fmt.Println("Migration process completed")
}
