package ui

import (
	"bytes"
	"crypto/md5" // #nosec G501
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/tdewolff/minify"
	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/web"
	"go.uber.org/zap"
)

// StaticFiles gets the map containing the static files
func (s *service) StaticFiles() models.StaticFiles {
	return s.staticFiles
}

// Create minified versions of the static files and cache them in memory.
func parseStaticFiles(m *minify.M, dir string, log *zap.Logger) models.StaticFiles {

	sf := make(models.StaticFiles)

	// Function used to process each file/dir in the root, including the root
	walkDirFunc := func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Skip minified files
		if strings.Contains(info.Name(), ".min.") {
			return nil
		}

		// Embedded files have zero mod time
		stat, err := fs.Stat(web.Files, path)
		if err != nil {
			return err
		}

		b, err := fs.ReadFile(web.Files, path)
		if err != nil {
			return err
		}

		var mediaType string
		switch filepath.Ext(info.Name()) {
		case ".css":
			mediaType = "text/css; charset=utf-8"
		case ".js":
			mediaType = "application/javascript; charset=utf-8"
		case ".html":
			mediaType = "text/html; charset=utf-8"
		}

		// Create Etag as a hexadecimal md5 hash of the file content
		etag := fmt.Sprintf("%x", md5.Sum(b)) // #nosec G401

		// Ensure the name starts with "/"
		name := path
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}

		sf[name] = &models.FileInfo{
			MediaType: mediaType,
			ModTime:   stat.ModTime(),
			Etag:      etag,
		}

		// We're done with files we don't minify
		if mediaType == "" {
			return nil
		}

		// Minify the content
		mb, err := m.Bytes(strings.Split(mediaType, ";")[0], b)
		if err != nil {
			return err
		}

		sf[name].Bytes = mb

		// Gzip the minified content
		buf := new(bytes.Buffer)
		gz, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
		if err != nil {
			return err
		}

		if _, err = gz.Write(mb); err != nil {
			gz.Close()
			return err
		}

		// Close the writer explicitly to flush all the bytes
		if err = gz.Close(); err != nil {
			return err
		}

		sf[name].Compressed = buf.Bytes()
		return nil
	}

	// Walk the directory and process each file
	if err := fs.WalkDir(web.Files, dir, walkDirFunc); err != nil {
		log.Error("failed to parse static files", zap.String("dir", dir), zap.Error(err))
	}

	return sf
}
