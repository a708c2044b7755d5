package stories

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/containers"
	"github.com/vlatan/storytime/internal/drivers/database"
	"github.com/vlatan/storytime/internal/models"
)

var ( // Package global variables
	testDB  *database.Service
	baseCtx context.Context
)

// Sets up a Postgres container for all tests in this package to use
func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

// runTests performs a setup and runs all the tests in this package
func runTests(m *testing.M) int {

	projectRoot, err := containers.GetProjectRoot()
	if err != nil {
		log.Fatal(err)
	}

	// This is valid only for local test runs
	envPath := filepath.Join(projectRoot, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("failed to load .env file; %v", err)
	}

	baseCtx = context.Background()
	cfg := config.New()
	if cfg.DBPassword == "" {
		cfg.DBPassword = "postgres"
	}

	setupCtx, setupCancel := context.WithTimeout(baseCtx, 2*time.Minute)
	defer setupCancel()

	container, err := containers.SetupTestDB(setupCtx, cfg, projectRoot)
	if err != nil {
		log.Fatalf("failed to create Postgres container; %v", err)
	}

	defer container.Terminate(baseCtx)

	testDB, err = database.New(baseCtx, cfg, nil)
	if err != nil {
		log.Fatalf("failed to create db pool; %v", err)
	}

	defer testDB.Close()

	return m.Run()
}

func truncate(t *testing.T) {
	t.Helper()
	if _, err := testDB.Pool.Exec(baseCtx, "TRUNCATE story"); err != nil {
		t.Fatalf("failed to truncate; %v", err)
	}
}

func newStory(title string, createdAt time.Time) *models.Story {
	return &models.Story{
		ID:         uuid.NewString(),
		Title:      title,
		CreatedAt:  createdAt,
		AudioURL:   "/audio/voice.webm",
		Transcript: "A kid tells a story.",
		Panels: []models.Panel{
			{ImageURL: "https://placehold.co/600x400/png?text=Panel+1", CaptionText: "one", ImagePrompt: "p1"},
			{ImageURL: "https://placehold.co/600x400/png?text=Panel+2", CaptionText: "two", ImagePrompt: "p2"},
			{ImageURL: "https://placehold.co/600x400/png?text=Panel+3", CaptionText: "three", ImagePrompt: "p3"},
			{ImageURL: "https://placehold.co/600x400/png?text=Panel+4", CaptionText: "four", ImagePrompt: "p4"},
		},
	}
}

func TestGetStoriesEmpty(t *testing.T) {

	truncate(t)
	repo := New(testDB)

	stories, err := repo.GetStories(baseCtx)
	if err != nil {
		t.Fatalf("failed to get stories; %v", err)
	}

	if stories == nil || len(stories) != 0 {
		t.Errorf("got %#v, want an empty non-nil list", stories)
	}
}

func TestInsertAndGetStory(t *testing.T) {

	truncate(t)
	repo := New(testDB)

	story := newStory("* the dragon", time.Date(2025, 5, 6, 7, 8, 9, 123456000, time.UTC))
	if err := repo.InsertStory(baseCtx, story); err != nil {
		t.Fatalf("failed to insert the story; %v", err)
	}

	got, err := repo.GetStory(baseCtx, story.ID)
	if err != nil {
		t.Fatalf("failed to get the story; %v", err)
	}

	if diff := cmp.Diff(story, got); diff != "" {
		t.Errorf("story mismatch (-want +got):\n%s", diff)
	}

	// The id is the primary key
	if err := repo.InsertStory(baseCtx, story); err == nil {
		t.Error("got nil error, want error on a duplicate id")
	}
}

func TestGetStoryNotFound(t *testing.T) {

	repo := New(testDB)

	_, err := repo.GetStory(baseCtx, uuid.NewString())
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want models.ErrNotFound", err)
	}
}

func TestGetStoriesOrder(t *testing.T) {

	truncate(t)
	repo := New(testDB)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newStory("first", base)
	second := newStory("second", base.Add(time.Hour))
	third := newStory("third", base.Add(2*time.Hour))

	// Insert out of order
	for _, s := range []*models.Story{second, third, first} {
		if err := repo.InsertStory(baseCtx, s); err != nil {
			t.Fatal(err)
		}
	}

	stories, err := repo.GetStories(baseCtx)
	if err != nil {
		t.Fatal(err)
	}

	expected := models.Stories{
		{ID: third.ID, Title: third.Title, CreatedAt: third.CreatedAt},
		{ID: second.ID, Title: second.Title, CreatedAt: second.CreatedAt},
		{ID: first.ID, Title: first.Title, CreatedAt: first.CreatedAt},
	}

	if diff := cmp.Diff(expected, stories); diff != "" {
		t.Errorf("stories mismatch (-want +got):\n%s", diff)
	}
}
