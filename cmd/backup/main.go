package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/vlatan/storytime/internal/backup"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/integrations/r2"
	"go.uber.org/zap"
)

func main() {

	// Local runs only, the env is set in production
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded; %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := config.New()
	if cfg.Target != config.Backup {
		log.Fatalf("TARGET must be %q for the backup command, got %q", config.Backup, cfg.Target)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger; %v", err)
	}
	defer logger.Sync()

	r2s, err := r2.New(ctx, cfg)
	if err != nil {
		logger.Fatal("couldn't create R2 service", zap.Error(err))
	}

	if _, err := backup.New(cfg, r2s, logger).Run(ctx); err != nil {
		logger.Fatal("backup failed", zap.Error(err))
	}
}
