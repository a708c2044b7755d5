// Package audio stores the uploaded audio and serves it back.
package audio

import (
	"context"
	"io"
	"time"
)

// URLPrefix is the public path the audio files are served under
const URLPrefix = "/audio/"

// Object is a stored audio file opened for reading
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Store keeps audio bytes under unique names
type Store interface {
	// Save writes the audio and returns the URL it's served under
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Open opens a stored audio file, models.ErrNotFound if missing
	Open(ctx context.Context, name string) (*Object, error)
}

// URL is the public URL of a stored audio file
func URL(name string) string {
	return URLPrefix + name
}
