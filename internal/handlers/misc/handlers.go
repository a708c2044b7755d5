package misc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/utils"
	"github.com/vlatan/storytime/web"
	"go.uber.org/zap"
)

// The front page within the static files
const indexPath = "/static/index.html"

// AudioHandler streams a stored audio file back to the client
func (s *Service) AudioHandler(w http.ResponseWriter, r *http.Request) {

	name := r.PathValue("filename")
	if err := utils.ValidateFileName(name); err != nil {
		http.NotFound(w, r)
		return
	}

	obj, err := s.audio.Open(r.Context(), name)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.log.Error("failed to open audio", zap.String("name", name), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}

	// Seekable bodies support range requests
	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, name, obj.ModTime, rs)
		return
	}

	if obj.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", obj.Size))
	}

	if !obj.ModTime.IsZero() {
		w.Header().Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}

	if _, err := io.Copy(w, obj.Body); err != nil {
		// Too late for recovery here, just log the error
		s.log.Warn("failed to stream audio", zap.String("name", name), zap.Error(err))
	}
}

// TextHandler handles text files such as robots.txt
func (s *Service) TextHandler(w http.ResponseWriter, r *http.Request) {

	// Validate the path
	if err := utils.ValidateFilePath(r.URL.Path); err != nil {
		http.NotFound(w, r)
		return
	}

	// Check if the text file exists
	textFile, exists := s.ui.TextFiles()[r.URL.Path]
	if !exists {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(textFile.Bytes); err != nil {
		s.log.Warn("failed to write text file", zap.String("uri", r.URL.Path), zap.Error(err))
	}
}

// Liveness probe
func (s *Service) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("OK")); err != nil {
		s.log.Warn("failed to write health check", zap.Error(err))
	}
}

// DB and Redis health status
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {

	data := map[string]any{
		"redis_status":    s.rdb.Health(r.Context()),
		"database_status": s.db.Health(r.Context()),
		"server_status":   getServerStats(),
	}

	s.ui.WriteJSON(w, r, data)
}

// HomeHandler serves the front page
func (s *Service) HomeHandler(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, indexPath, "no-cache")
}

// Handle static files
func (s *Service) StaticHandler(w http.ResponseWriter, r *http.Request) {

	// Validate the path
	if err := utils.ValidateFilePath(r.URL.Path); err != nil {
		http.NotFound(w, r)
		return
	}

	s.serveStatic(w, r, r.URL.Path, "max-age=31536000")
}

// serveStatic serves a file kept in memory, falling back to the embedded FS
func (s *Service) serveStatic(w http.ResponseWriter, r *http.Request, path, cacheControl string) {

	// Set cache control and vary cache based on compression
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Vary", "Accept-Encoding")

	fileInfo, ok := s.ui.StaticFiles()[path]
	if !ok {
		// Serve from the embedded FS
		http.ServeFileFS(w, r, web.Files, strings.TrimPrefix(path, "/"))
		return
	}

	if fileInfo.Etag != "" {
		w.Header().Set("Etag", fmt.Sprintf(`"%s"`, fileInfo.Etag))
	}

	// Return 304 not modified if etag match
	noneMatch := strings.Trim(r.Header.Get("If-None-Match"), "\"")
	if fileInfo.Etag != "" && noneMatch == fileInfo.Etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if fileInfo.MediaType != "" {
		w.Header().Set("Content-Type", fileInfo.MediaType)
	}

	// Check if the client accepts gzip
	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") && len(fileInfo.Compressed) > 0 {
		w.Header().Set("Content-Encoding", "gzip")
		http.ServeContent(w, r, path, fileInfo.ModTime, bytes.NewReader(fileInfo.Compressed))
		return
	}

	if len(fileInfo.Bytes) > 0 {
		http.ServeContent(w, r, path, fileInfo.ModTime, bytes.NewReader(fileInfo.Bytes))
		return
	}

	http.ServeFileFS(w, r, web.Files, strings.TrimPrefix(path, "/"))
}
