package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/utils"
)

// LocalStore keeps the audio files in a directory on disk
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create the audio directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the audio file.
// A partially written file is removed on failure.
func (s *LocalStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {

	if err := utils.ValidateFileName(name); err != nil {
		return "", err
	}

	file, err := utils.SecureCreate(s.dir, name)
	if err != nil {
		return "", fmt.Errorf("could not create the audio file %s: %w", name, err)
	}

	_, err = io.Copy(file, &contextReader{ctx, r})
	if cErr := file.Close(); err == nil {
		err = cErr
	}

	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("could not write the audio file %s: %w", name, err)
	}

	return URL(name), nil
}

// Open opens an audio file for reading
func (s *LocalStore) Open(ctx context.Context, name string) (*Object, error) {

	if err := utils.ValidateFileName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}

	file, err := utils.SecureOpen(s.dir, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("audio %s: %w", name, models.ErrNotFound)
	}

	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("audio %s: %w", name, models.ErrNotFound)
	}

	return &Object{
		Body:        file,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// contextReader stops reading once the context is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
