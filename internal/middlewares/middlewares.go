package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/ui"
	"go.uber.org/zap"
)

type Service struct {
	ui     ui.Service
	config *config.Config
	log    *zap.Logger
}

func New(ui ui.Service, config *config.Config, log *zap.Logger) *Service {

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		ui:     ui,
		config: config,
		log:    log,
	}
}

// Close the body if POST request
func (s *Service) CloseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Close request body for POST methods to prevent resource leaks
		if r.Method == http.MethodPost {
			defer r.Body.Close()
		}
		next.ServeHTTP(w, r)
	})
}

// Do not crash the app on panic, serve 500 error to the client
func (s *Service) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If in production recover panic
		if !s.config.Debug {
			defer func() {
				if err := recover(); err != nil {
					s.log.Error(
						"panic",
						zap.String("method", r.Method),
						zap.String("uri", r.URL.Path),
						zap.Any("err", err),
						zap.Stack("stack"),
					)

					// Return 500 to client
					http.Error(w, "Something went wrong", http.StatusInternalServerError)
				}
			}()
		}

		next.ServeHTTP(w, r)
	})
}

// Logging logs every request once it's served
func (s *Service) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.Info(
			"request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Int("status", sw.status),
			zap.Int("bytes", sw.bytes),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// CORS lets browsers on the allowed origins call the API
func (s *Service) CORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.config.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})(next)
}

// Add security headers to request
func (s *Service) AddHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")

		// HSTS (HTTPS only)
		if !s.config.Debug {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// Record the status code and body and serve JSON errors if the response is error
func (s *Service) HandleErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Audio is streamed straight through
		if strings.HasPrefix(r.URL.Path, "/audio/") {
			next.ServeHTTP(w, r)
			return
		}

		// Create our custom response recorder
		recorder := NewResponseRecorder(w, s.log)

		// Defer the final response write until the function exits.
		// This ensures that either the original response or the error response is written.
		defer recorder.flush()

		// Call the next handler in the chain
		next.ServeHTTP(recorder, r)

		// We don't care if this is not an error
		if recorder.status < 400 {
			return
		}

		// This is an error, clear any previously buffered body
		recorder.body.Reset()
		w.Header().Del("Content-Encoding")
		w.Header().Del("Content-Length")
		s.ui.JSONError(recorder, r, recorder.status)
	})
}

// Compress provides gzip compression to non-static responses
func (s *Service) Compress(next http.Handler) http.Handler {

	// Create the gzip handler
	gzipHandler := gzhttp.GzipHandler(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Static files are compressed on startup,
		// audio is already compressed
		if isPrecompressed(r) {
			next.ServeHTTP(w, r)
			return
		}

		gzipHandler.ServeHTTP(w, r)
	})
}

// Chain middlewares that apply to all handlers
func (s *Service) ApplyToAll(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middlewares in reverse order
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Check if the response is compressed already
func isPrecompressed(r *http.Request) bool {
	return r.URL.Path == "/" ||
		strings.HasPrefix(r.URL.Path, "/static/") ||
		strings.HasPrefix(r.URL.Path, "/audio/")
}
