package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vlatan/storytime/internal/models"
)

func TestLocalStore(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "audio")
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("failed to create the store; %v", err)
	}

	ctx := context.Background()

	url, err := store.Save(ctx, "abc_voice.mp3", "audio/mpeg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("failed to save the audio; %v", err)
	}

	if url != "/audio/abc_voice.mp3" {
		t.Errorf("got URL %q, want %q", url, "/audio/abc_voice.mp3")
	}

	tests := []struct {
		name     string
		filename string
		notFound bool
		content  string
	}{
		{"stored file", "abc_voice.mp3", false, "bytes"},
		{"missing file", "missing.mp3", true, ""},
		{"traversal", "../audio/abc_voice.mp3", true, ""},
		{"empty name", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := store.Open(ctx, tt.filename)
			if notFound := errors.Is(err, models.ErrNotFound); notFound != tt.notFound {
				t.Fatalf("got error = %v, want not found = %t", err, tt.notFound)
			}

			if err != nil {
				return
			}

			defer obj.Body.Close()

			b, err := io.ReadAll(obj.Body)
			if err != nil {
				t.Fatal(err)
			}

			if string(b) != tt.content {
				t.Errorf("got %q, want %q", b, tt.content)
			}

			if obj.Size != int64(len(tt.content)) {
				t.Errorf("got size %d, want %d", obj.Size, len(tt.content))
			}
		})
	}
}

func TestLocalStoreSaveInvalidName(t *testing.T) {

	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	names := []string{"", "..", "dir/file.mp3", "../file.mp3"}
	for _, name := range names {
		if _, err := store.Save(context.Background(), name, "", strings.NewReader("x")); err == nil {
			t.Errorf("name %q: got nil error, want error", name)
		}
	}
}

func TestLocalStoreCancelledSave(t *testing.T) {

	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, "cancelled.mp3", "", strings.NewReader("bytes")); err == nil {
		t.Fatal("got nil error, want error for a cancelled context")
	}

	// No partial file is left behind
	if _, err := os.Stat(filepath.Join(dir, "cancelled.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want the file to be removed", err)
	}
}
