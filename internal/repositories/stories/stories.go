package stories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vlatan/storytime/internal/drivers/database"
	"github.com/vlatan/storytime/internal/models"
)

type Repository struct {
	db *database.Service
}

func New(db *database.Service) *Repository {
	return &Repository{db: db}
}

// InsertStory inserts a complete story in a single statement
func (r *Repository) InsertStory(ctx context.Context, story *models.Story) error {

	panels := story.Panels
	if panels == nil {
		panels = []models.Panel{}
	}

	// Marshal the panels
	panelsJSON, err := json.Marshal(panels)
	if err != nil {
		return fmt.Errorf("story '%s': %w", story.ID, err)
	}

	_, err = r.db.Pool.Exec(
		ctx,
		insertStoryQuery,
		story.ID,
		story.Title,
		story.CreatedAt,
		story.AudioURL,
		story.Transcript,
		panelsJSON,
	)

	if err != nil {
		return fmt.Errorf("could not insert story '%s': %w", story.ID, err)
	}

	return nil
}

// GetStories gets all the story summaries, newest first
func (r *Repository) GetStories(ctx context.Context) (models.Stories, error) {

	rows, err := r.db.Pool.Query(ctx, getStoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := models.Stories{}
	for rows.Next() {
		var s models.StorySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.CreatedAt = s.CreatedAt.UTC()
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

// GetStory gets a single story, models.ErrNotFound if absent
func (r *Repository) GetStory(ctx context.Context, id string) (*models.Story, error) {

	var story models.Story
	var panels []byte

	err := r.db.Pool.QueryRow(ctx, getSingleStoryQuery, id).Scan(
		&story.ID,
		&story.Title,
		&story.CreatedAt,
		&story.AudioURL,
		&story.Transcript,
		&panels,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("story '%s': %w", id, models.ErrNotFound)
	}

	if err != nil {
		return nil, err
	}

	// Unserialize the panels
	if err = json.Unmarshal(panels, &story.Panels); err != nil {
		return nil, fmt.Errorf("story '%s': %w", id, err)
	}

	story.CreatedAt = story.CreatedAt.UTC()
	return &story, nil
}
