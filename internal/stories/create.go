package stories

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gosimple/slug"
	"github.com/vlatan/storytime/internal/models"
	"go.uber.org/zap"
)

// ErrNoAudio is returned when a submission carries no audio
var ErrNoAudio = errors.New("audio is required")

// Audio file name fallbacks
const (
	defaultStem = "audio"
	defaultExt  = ".webm"
	maxStemLen  = 64
)

// CreateStory stores the audio, builds the story and persists it.
// The record is written last, in a single insert,
// so any earlier failure leaves no record behind.
func (s *Service) CreateStory(ctx context.Context, in CreateInput) (*models.Story, error) {

	if in.Audio == nil {
		return nil, ErrNoAudio
	}

	id := s.newID()
	name := AudioName(id, in.Filename)

	audioURL, err := s.audio.Save(ctx, name, in.ContentType, in.Audio)
	if err != nil {
		return nil, fmt.Errorf("could not save audio for story '%s': %w", id, err)
	}

	transcript, err := s.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("could not transcribe audio for story '%s': %w", id, err)
	}

	transcript = s.sanitizer.Sanitize(transcript)

	plan, err := s.generator.Generate(transcript)
	if err != nil {
		return nil, fmt.Errorf("could not plan story '%s': %w", id, err)
	}

	// An empty title falls back to the plan's title
	title := in.Title
	if title == "" {
		title = plan.Title
	}

	story := &models.Story{
		ID:         id,
		Title:      s.sanitizer.Sanitize(title),
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
		AudioURL:   audioURL,
		Transcript: transcript,
		Panels:     s.generator.BuildPanels(plan),
	}

	if err := s.repo.InsertStory(ctx, story); err != nil {
		return nil, err
	}

	s.rdb.Bump(ctx, storiesVersionKey, storiesCacheKey)

	s.log.Info(
		"story created",
		zap.String("id", story.ID),
		zap.String("audio", audioURL),
		zap.Int("panels", len(story.Panels)),
	)

	return story, nil
}

// AudioName is a unique and safe file name for the uploaded audio,
// the story id followed by the slugified original name.
func AudioName(id, filename string) string {

	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if !validExt(ext) {
		ext = defaultExt
	}

	stem = slug.Make(stem)
	if len(stem) > maxStemLen {
		stem = strings.Trim(stem[:maxStemLen], "-")
	}

	if stem == "" {
		stem = defaultStem
	}

	return fmt.Sprintf("%s_%s%s", id, stem, ext)
}

// validExt accepts a dot followed by a few ASCII letters or digits
func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}

	for _, r := range ext[1:] {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}

	return true
}
