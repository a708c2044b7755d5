package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vlatan/storytime/internal/audio"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/content"
	"github.com/vlatan/storytime/internal/drivers/database"
	"github.com/vlatan/storytime/internal/drivers/rdb"
	"github.com/vlatan/storytime/internal/handlers/misc"
	storyHandlers "github.com/vlatan/storytime/internal/handlers/stories"
	"github.com/vlatan/storytime/internal/integrations/r2"
	"github.com/vlatan/storytime/internal/middlewares"
	"github.com/vlatan/storytime/internal/moderation"
	storiesRepo "github.com/vlatan/storytime/internal/repositories/stories"
	"github.com/vlatan/storytime/internal/storyplan"
	"github.com/vlatan/storytime/internal/stories"
	"github.com/vlatan/storytime/internal/ui"
	"github.com/vlatan/storytime/migrations"
	"go.uber.org/zap"
)

type App struct {
	stories *storyHandlers.Service
	misc    *misc.Service
	mw      *middlewares.Service
	log     *zap.Logger
	cleanup func()

	domain string
	server *http.Server
}

// deps are the backing services the handlers run on
type deps struct {
	stories storyHandlers.StoryService
	db      misc.HealthChecker
	rdb     misc.HealthChecker
	audio   audio.Store
	cleanup func()
}

// New connects to the backing services and wires the app
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {

	// Load the story content tables
	c, err := content.Load(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't load the story content; %w", err)
	}

	sanitizer, err := moderation.New(c.BannedTerms)
	if err != nil {
		return nil, fmt.Errorf("couldn't create the sanitizer; %w", err)
	}

	generator, err := storyplan.New(c, sanitizer, cfg.PlaceholderBaseURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't create the story generator; %w", err)
	}

	// Create database service and create the schema
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("couldn't create DB service; %w", err)
	}

	if err = db.Migrate(ctx, migrations.Files); err != nil {
		db.Close()
		return nil, fmt.Errorf("couldn't migrate the database; %w", err)
	}

	// Create Redis service, nil means no caching
	var rs *rdb.Service
	if !cfg.RedisDisabled {
		rs, err = rdb.New(cfg, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("couldn't create Redis service; %w", err)
		}
	}

	store, err := newAudioStore(ctx, cfg)
	if err != nil {
		db.Close()
		rs.Close()
		return nil, err
	}

	storySvc, err := stories.New(
		storiesRepo.New(db),
		store,
		stories.PlaceholderTranscriber{Transcript: c.Transcript},
		generator,
		sanitizer,
		rs,
		cfg,
		log,
	)

	if err != nil {
		db.Close()
		rs.Close()
		return nil, err
	}

	return build(cfg, log, deps{
		stories: storySvc,
		db:      db,
		rdb:     rs,
		audio:   store,
		cleanup: func() {
			db.Close()
			if err := rs.Close(); err != nil {
				log.Warn("failed to close Redis", zap.Error(err))
			}
		},
	}), nil
}

// build creates the handlers and the HTTP server
func build(cfg *config.Config, log *zap.Logger, d deps) *App {

	if log == nil {
		log = zap.NewNop()
	}

	uiSvc := ui.New(cfg, log)

	return &App{
		stories: storyHandlers.New(d.stories, uiSvc, cfg, log),
		misc:    misc.New(cfg, d.db, d.rdb, d.audio, uiSvc, log),
		mw:      middlewares.New(uiSvc, cfg, log),
		log:     log,
		cleanup: d.cleanup,
		domain:  cfg.Domain,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			IdleTimeout:  time.Minute,
			ReadTimeout:  time.Minute,
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// newAudioStore picks the audio backend from the config
func newAudioStore(ctx context.Context, cfg *config.Config) (audio.Store, error) {
	switch cfg.AudioBackend {
	case config.R2Audio:
		r2s, err := r2.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("couldn't create R2 service; %w", err)
		}
		return audio.NewBucketStore(r2s, cfg.R2AudioBucketName), nil
	default:
		store, err := audio.NewLocalStore(cfg.AudioDir())
		if err != nil {
			return nil, fmt.Errorf("couldn't create the audio directory; %w", err)
		}
		return store, nil
	}
}
