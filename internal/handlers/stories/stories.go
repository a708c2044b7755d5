package stories

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/models"
	storySvc "github.com/vlatan/storytime/internal/stories"
	"github.com/vlatan/storytime/internal/ui"
	"go.uber.org/zap"
)

// StoryService creates and reads stories
type StoryService interface {
	CreateStory(ctx context.Context, in storySvc.CreateInput) (*models.Story, error)
	ListStories(ctx context.Context) (models.Stories, error)
	GetStory(ctx context.Context, id string) (*models.Story, error)
	Storybook(ctx context.Context, id string) ([]byte, error)
}

type Service struct {
	stories StoryService
	ui      ui.Service
	config  *config.Config
	policy  *bluemonday.Policy // storybook output
	log     *zap.Logger
}

func New(stories StoryService, ui ui.Service, config *config.Config, log *zap.Logger) *Service {

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		stories: stories,
		ui:      ui,
		config:  config,
		policy:  bluemonday.UGCPolicy(),
		log:     log,
	}
}
