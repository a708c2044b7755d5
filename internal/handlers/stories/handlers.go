package stories

import (
	"errors"
	"net/http"

	"github.com/vlatan/storytime/internal/models"
	storySvc "github.com/vlatan/storytime/internal/stories"
	"github.com/vlatan/storytime/internal/utils"
	"go.uber.org/zap"
)

// Multipart parts kept in memory, the rest spills to temp files
const maxMemory = 8 << 20

// CreateStoryHandler accepts a multipart upload with an
// "audio" file and an optional "title" and responds with the new story.
func (s *Service) CreateStoryHandler(w http.ResponseWriter, r *http.Request) {

	if s.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.HttpError(w, http.StatusRequestEntityTooLarge)
			return
		}

		s.log.Info("invalid multipart form", zap.String("uri", r.RequestURI), zap.Error(err))
		utils.HttpError(w, http.StatusBadRequest)
		return
	}

	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.HttpError(w, http.StatusBadRequest)
		return
	}

	defer file.Close()

	story, err := s.stories.CreateStory(r.Context(), storySvc.CreateInput{
		Title:       r.FormValue("title"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Audio:       file,
	})

	if errors.Is(err, storySvc.ErrNoAudio) {
		utils.HttpError(w, http.StatusBadRequest)
		return
	}

	if err != nil {
		s.log.Error("failed to create story", zap.String("uri", r.RequestURI), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	s.ui.WriteJSON(w, r, story)
}

// ListStoriesHandler responds with the story summaries, newest first
func (s *Service) ListStoriesHandler(w http.ResponseWriter, r *http.Request) {

	stories, err := s.stories.ListStories(r.Context())
	if err != nil {
		s.log.Error("failed to list stories", zap.String("uri", r.RequestURI), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	s.ui.WriteJSON(w, r, stories)
}

// GetStoryHandler responds with a single story
func (s *Service) GetStoryHandler(w http.ResponseWriter, r *http.Request) {

	id := r.PathValue("id")

	story, err := s.stories.GetStory(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.log.Error("failed to get story", zap.String("id", id), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	s.ui.WriteJSON(w, r, story)
}

// StorybookHandler responds with the story rendered as an HTML page
func (s *Service) StorybookHandler(w http.ResponseWriter, r *http.Request) {

	id := r.PathValue("id")

	page, err := s.stories.Storybook(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.log.Error("failed to render storybook", zap.String("id", id), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.policy.SanitizeBytes(page)); err != nil {
		// Too late for recovery here, just log the error
		s.log.Warn("failed to write storybook", zap.String("id", id), zap.Error(err))
	}
}
