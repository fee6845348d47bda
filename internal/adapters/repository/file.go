package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/skillpulse/internal/domain/model"
)

// FileSink writes CSV files into a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates a FileSink rooted at dir. The directory is created on
// first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Name implements Sink.
func (s *FileSink) Name() string { return "file" }

// Path returns the file an artifact is written to.
func (s *FileSink) Path(artifact string) string {
	return filepath.Join(s.dir, objectName(artifact))
}

// Write implements Sink. The file is replaced atomically.
func (s *FileSink) Write(ctx context.Context, artifact string, rows []model.EmergingSkill) error {
	if err := checkArtifact(artifact); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeCSV(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", artifact, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrWrite, s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".emerging-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(artifact)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
