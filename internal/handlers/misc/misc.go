package misc

import (
	"context"

	"github.com/vlatan/storytime/internal/audio"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/ui"
	"go.uber.org/zap"
)

// HealthChecker reports the state of a backing service
type HealthChecker interface {
	Health(ctx context.Context) map[string]any
}

type Service struct {
	config *config.Config
	db     HealthChecker
	rdb    HealthChecker
	audio  audio.Store
	ui     ui.Service
	log    *zap.Logger
}

func New(
	config *config.Config,
	db HealthChecker,
	rdb HealthChecker,
	audio audio.Store,
	ui ui.Service,
	log *zap.Logger,
) *Service {

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		config: config,
		db:     db,
		rdb:    rdb,
		audio:  audio,
		ui:     ui,
		log:    log,
	}
}
