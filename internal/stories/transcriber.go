package stories

import (
	"context"
	"io"
)

// Transcriber turns stored audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

// PlaceholderTranscriber ignores the audio and
// always returns the same stand-in transcript.
type PlaceholderTranscriber struct {
	Transcript string
}

func (pt PlaceholderTranscriber) Transcribe(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return pt.Transcript, nil
}

// CreateInput is a single story submission
type CreateInput struct {
	Title       string
	Filename    string
	ContentType string
	Audio       io.Reader
}
