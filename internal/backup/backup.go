package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/integrations/r2"
	"github.com/vlatan/storytime/internal/utils"
	"go.uber.org/zap"
)

// Dumper writes a database dump to a file
type Dumper func(ctx context.Context, dbURL, dest string) error

type Service struct {
	config *config.Config
	r2s    r2.Service
	dump   Dumper
	log    *zap.Logger
	now    func() time.Time
}

// New creates a backup service dumping with pg_dump
func New(cfg *config.Config, r2s r2.Service, log *zap.Logger) *Service {

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		config: cfg,
		r2s:    r2s,
		dump:   PgDump,
		log:    log,
		now:    time.Now,
	}
}

// Run dumps the database, compresses the dump and
// uploads it to the backup bucket. Returns the object key.
func (s *Service) Run(ctx context.Context) (string, error) {

	dir, err := os.MkdirTemp("", "storytime-backup-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dbDump := fmt.Sprintf("backup-%s.sql", s.now().UTC().Format("2006-01-02T15-04"))
	if err := s.dump(ctx, s.config.DatabaseURL(), filepath.Join(dir, dbDump)); err != nil {
		return "", err
	}

	cDump := dbDump + ".gz"
	if err := CompressFile(dir, dbDump, cDump); err != nil {
		return "", err
	}

	if err := s.r2s.UploadFile(ctx, s.config.R2BackupBucketName, dir, cDump, cDump); err != nil {
		return "", err
	}

	s.log.Info(
		"backup uploaded",
		zap.String("bucket", s.config.R2BackupBucketName),
		zap.String("key", cDump),
	)

	return cDump, nil
}

// PgDump dumps a database to file
func PgDump(ctx context.Context, dbURL, dest string) error {

	cmd := exec.CommandContext(ctx, "pg_dump", dbURL, "-f", dest) // #nosec G204

	// Capture both stdout and stderr
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump failed: %w\nstderr: %s\nstdout: %s",
			err, stderr.String(), stdout.String())
	}

	return nil
}

// CompressFile gzips src into dest, both within the root dir
func CompressFile(root, src, dest string) error {

	file, err := utils.SecureOpen(root, src)
	if err != nil {
		return fmt.Errorf("failed to open the file: %w", err)
	}
	defer file.Close()

	gzipFile, err := utils.SecureCreate(root, dest)
	if err != nil {
		return fmt.Errorf("failed to create gzip file: %w", err)
	}
	defer gzipFile.Close()

	gzipWriter, err := gzip.NewWriterLevel(gzipFile, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err = io.Copy(gzipWriter, file); err != nil {
		gzipWriter.Close()
		return fmt.Errorf("failed to copy data to gzip writer: %w", err)
	}

	// Close explicitly to flush all the bytes
	if err = gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip writer: %w", err)
	}

	return nil
}
