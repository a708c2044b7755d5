package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/vlatan/storytime/internal/app"
	"github.com/vlatan/storytime/internal/config"
	"go.uber.org/zap"
)

func main() {

	// Local runs only, the env is set in production
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded; %v", err)
	}

	cfg := config.New()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger; %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to create the app", zap.Error(err))
	}

	if err := a.RegisterRoutes().Run(); err != nil {
		logger.Fatal("http server error", zap.Error(err))
	}
}

// newLogger is a development logger in debug mode
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
