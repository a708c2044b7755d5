// Package stories turns uploaded audio into persisted illustrated stories.
package stories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vlatan/storytime/internal/audio"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/drivers/rdb"
	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/moderation"
	"github.com/vlatan/storytime/internal/storyplan"
	"go.uber.org/zap"
)

// Cache keys
const (
	storiesCacheKey   = "stories"
	storiesVersionKey = "stories:version"
	storyCacheKey     = "story:"
)

// Repository persists and reads the stories
type Repository interface {
	InsertStory(ctx context.Context, story *models.Story) error
	GetStories(ctx context.Context) (models.Stories, error)
	GetStory(ctx context.Context, id string) (*models.Story, error)
}

type Service struct {
	repo        Repository
	audio       audio.Store
	transcriber Transcriber
	generator   *storyplan.Generator
	sanitizer   *moderation.Sanitizer
	rdb         *rdb.Service
	config      *config.Config
	log         *zap.Logger
	now         func() time.Time
	newID       func() string
}

// New creates the story service, rdb can be nil
func New(
	repo Repository,
	store audio.Store,
	transcriber Transcriber,
	generator *storyplan.Generator,
	sanitizer *moderation.Sanitizer,
	rdb *rdb.Service,
	cfg *config.Config,
	log *zap.Logger,
) (*Service, error) {

	if repo == nil || store == nil || transcriber == nil {
		return nil, errors.New("story service needs a repository, an audio store and a transcriber")
	}

	if generator == nil || sanitizer == nil || cfg == nil {
		return nil, errors.New("story service needs a generator, a sanitizer and a config")
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		repo:        repo,
		audio:       store,
		transcriber: transcriber,
		generator:   generator,
		sanitizer:   sanitizer,
		rdb:         rdb,
		config:      cfg,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

// ListStories gets the story summaries, newest first
func (s *Service) ListStories(ctx context.Context) (models.Stories, error) {
	return rdb.GetVersionedData(
		ctx,
		s.rdb,
		storiesVersionKey,
		storiesCacheKey,
		s.config.CacheTimeout,
		func() (models.Stories, error) {
			return s.repo.GetStories(ctx)
		},
	)
}

// GetStory gets a single story, models.ErrNotFound if there's no such story
func (s *Service) GetStory(ctx context.Context, id string) (*models.Story, error) {

	story, err := rdb.GetCachedData(
		ctx,
		s.rdb,
		storyCacheKey+id,
		s.config.CacheTimeout,
		func() (models.Story, error) {
			story, err := s.repo.GetStory(ctx, id)
			if err != nil {
				return models.Story{}, err
			}
			return *story, nil
		},
	)

	if err != nil {
		return nil, err
	}

	return &story, nil
}
