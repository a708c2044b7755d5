package middlewares

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"
)

// A custom http.ResponseWriter that captures the status code
// and the body of the response. This allows the middleware to inspect the
// response from the next handler before writing it to the client.
type responseRecorder struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
	log    *zap.Logger
}

// Creates a new responseRecorder
func NewResponseRecorder(w http.ResponseWriter, log *zap.Logger) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		status:         http.StatusOK, // Default to 200 OK
		log:            log,
	}
}

// Captures the response status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
}

// Captures the response body.
func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

// Sends the captured response (or a modified one) to the client.
func (r *responseRecorder) flush() {
	r.ResponseWriter.WriteHeader(r.status)
	if r.body.Len() > 0 {
		if _, err := r.ResponseWriter.Write(r.body.Bytes()); err != nil {
			// Too late for recovery here, just log the error
			r.log.Warn("failed to write response body", zap.Error(err))
		}
	}
}

// statusWriter remembers the status code and the bytes written
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
