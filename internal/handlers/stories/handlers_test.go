package stories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/models"
	storySvc "github.com/vlatan/storytime/internal/stories"
	"github.com/vlatan/storytime/internal/ui"
)

var testStory = &models.Story{
	ID:         "abc",
	Title:      "* the dragon",
	CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	AudioURL:   "/audio/abc_story.webm",
	Transcript: "A kid tells a story about a brave friend and a sunny day.",
	Panels: []models.Panel{
		{ImageURL: "https://placehold.co/600x400/png?text=Panel+1", CaptionText: "one", ImagePrompt: "p1"},
	},
}

// fakeStories records the last submission
type fakeStories struct {
	input     storySvc.CreateInput
	audio     []byte
	createErr error
	getErr    error
	page      []byte
}

func (f *fakeStories) CreateStory(_ context.Context, in storySvc.CreateInput) (*models.Story, error) {
	f.input = in
	if in.Audio != nil {
		f.audio, _ = io.ReadAll(in.Audio)
	}

	if f.createErr != nil {
		return nil, f.createErr
	}

	story := *testStory
	story.Title = in.Title
	return &story, nil
}

func (f *fakeStories) ListStories(context.Context) (models.Stories, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return models.Stories{{ID: testStory.ID, Title: testStory.Title, CreatedAt: testStory.CreatedAt}}, nil
}

func (f *fakeStories) GetStory(_ context.Context, id string) (*models.Story, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if id != testStory.ID {
		return nil, models.ErrNotFound
	}
	return testStory, nil
}

func (f *fakeStories) Storybook(ctx context.Context, id string) ([]byte, error) {
	if _, err := f.GetStory(ctx, id); err != nil {
		return nil, err
	}
	if f.page != nil {
		return f.page, nil
	}
	return []byte("<h1>* the dragon</h1>"), nil
}

func newTestService(fake *fakeStories, maxUpload int64) *Service {
	cfg := &config.Config{MaxUploadSize: maxUpload}
	return New(fake, ui.New(cfg, nil), cfg, nil)
}

// multipartBody builds an upload, an empty filename skips the audio part
func multipartBody(t *testing.T, title, filename string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	if title != "" {
		if err := mw.WriteField("title", title); err != nil {
			t.Fatal(err)
		}
	}

	if filename != "" {
		fw, err := mw.CreateFormFile("audio", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(audio); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	return body, mw.FormDataContentType()
}

func TestCreateStoryHandler(t *testing.T) {

	fake := &fakeStories{}
	s := newTestService(fake, 1<<20)

	body, contentType := multipartBody(t, "  kill the <b>dragon</b> &amp; friends ", "story.webm", []byte("audio-bytes"))
	r := httptest.NewRequest(http.MethodPost, "/api/stories", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.CreateStoryHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	// The title reaches the service untouched
	if got, want := fake.input.Title, "  kill the <b>dragon</b> &amp; friends "; got != want {
		t.Errorf("got title %q, want %q", got, want)
	}

	if fake.input.Filename != "story.webm" {
		t.Errorf("got filename %q, want %q", fake.input.Filename, "story.webm")
	}

	if string(fake.audio) != "audio-bytes" {
		t.Errorf("got audio %q, want %q", fake.audio, "audio-bytes")
	}

	var got models.Story
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode the story; %v", err)
	}

	if got.ID != testStory.ID || len(got.Panels) != len(testStory.Panels) {
		t.Errorf("got %+v, want the created story", got)
	}
}

func TestCreateStoryHandlerErrors(t *testing.T) {

	tests := []struct {
		name      string
		filename  string
		audio     []byte
		maxUpload int64
		createErr error
		plain     bool
		status    int
	}{
		{"missing audio part", "", nil, 1 << 20, nil, false, http.StatusBadRequest},
		{"not multipart", "", nil, 1 << 20, nil, true, http.StatusBadRequest},
		{"too large", "big.webm", bytes.Repeat([]byte("a"), 4096), 512, nil, false, http.StatusRequestEntityTooLarge},
		{"no limit", "big.webm", bytes.Repeat([]byte("a"), 4096), 0, nil, false, http.StatusOK},
		{"no audio reader", "story.webm", []byte("x"), 1 << 20, storySvc.ErrNoAudio, false, http.StatusBadRequest},
		{"service fails", "story.webm", []byte("x"), 1 << 20, errors.New("db down"), false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeStories{createErr: tt.createErr}, tt.maxUpload)

			var r *http.Request
			if tt.plain {
				r = httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader("title=x"))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				body, contentType := multipartBody(t, "title", tt.filename, tt.audio)
				r = httptest.NewRequest(http.MethodPost, "/api/stories", body)
				r.Header.Set("Content-Type", contentType)
			}

			w := httptest.NewRecorder()
			s.CreateStoryHandler(w, r)

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestListStoriesHandler(t *testing.T) {

	tests := []struct {
		name   string
		getErr error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeStories{getErr: tt.getErr}, 1<<20)

			r := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
			w := httptest.NewRecorder()
			s.ListStoriesHandler(w, r)

			if w.Code != tt.status {
				t.Fatalf("got status %d, want %d", w.Code, tt.status)
			}

			if tt.getErr != nil {
				return
			}

			var got models.Stories
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}

			want := models.Stories{{ID: testStory.ID, Title: testStory.Title, CreatedAt: testStory.CreatedAt}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("stories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetStoryHandlers(t *testing.T) {

	s := newTestService(&fakeStories{}, 1<<20)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stories/{id}", s.GetStoryHandler)
	mux.HandleFunc("GET /api/stories/{id}/storybook", s.StorybookHandler)

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
	}{
		{"story", "/api/stories/abc", http.StatusOK, "application/json"},
		{"missing story", "/api/stories/nope", http.StatusNotFound, ""},
		{"storybook", "/api/stories/abc/storybook", http.StatusOK, "text/html; charset=utf-8"},
		{"missing storybook", "/api/stories/nope/storybook", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("got status %d, want %d", w.Code, tt.status)
			}

			if tt.contentType != "" && w.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("got content type %q, want %q", w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestStorybookHandlerSanitizes(t *testing.T) {

	fake := &fakeStories{
		page: []byte(`<h1>a &lt;*&gt; story</h1><script>alert(1)</script><p><img src="https://placehold.co/600x400/png?text=Panel+1" alt="Panel 1" onerror="alert(2)"></p>`),
	}
	s := newTestService(fake, 1<<20)

	r := httptest.NewRequest(http.MethodGet, "/api/stories/abc/storybook", nil)
	r.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	s.StorybookHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	page := w.Body.String()
	for _, unwanted := range []string{"<script", "alert", "onerror"} {
		if strings.Contains(page, unwanted) {
			t.Errorf("got %q in the page %q", unwanted, page)
		}
	}

	for _, wanted := range []string{"<h1>a &lt;*&gt; story</h1>", `alt="Panel 1"`, "placehold.co"} {
		if !strings.Contains(page, wanted) {
			t.Errorf("missing %q in the page %q", wanted, page)
		}
	}
}

func TestGetStoryHandlerFailure(t *testing.T) {

	s := newTestService(&fakeStories{getErr: errors.New("db down")}, 1<<20)

	r := httptest.NewRequest(http.MethodGet, "/api/stories/abc", nil)
	r.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	s.GetStoryHandler(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
