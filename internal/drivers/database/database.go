package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vlatan/storytime/internal/config"
	"go.uber.org/zap"
)

type Service struct {
	Pool   *pgxpool.Pool
	config *config.Config
	log    *zap.Logger
}

// New creates a database pool service
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create DB service with nil config")
	}

	// Parse the config
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}

	// Min 1 iddle connection,
	// to avoid creating NEW connections on low traffic sites.
	poolConfig.MinIdleConns = 1

	// Get MaxConns from the Config
	poolConfig.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{Pool: pool, config: cfg, log: log}, nil
}

// Close closes the database pool
func (s *Service) Close() {
	s.log.Info("disconnected from database", zap.String("host", s.config.DBHost))
	s.Pool.Close()
}
