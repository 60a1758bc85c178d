package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"order-etl/internal/model"

	"github.com/rs/zerolog"
)

// fileArchiver implements Archiver on the local file system.
type fileArchiver struct {
	dir    string
	logger zerolog.Logger
}

// NewFileArchiver creates an archiver writing into dir.
func NewFileArchiver(dir string, logger zerolog.Logger) Archiver {
	return &fileArchiver{
		dir:    dir,
		logger: logger.With().Str("component", "file-archiver").Logger(),
	}
}

// Archive writes the archive to dir/name, creating dir when needed.
func (a *fileArchiver) Archive(ctx context.Context, name string, docs []model.OrderDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(docs)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		a.logger.Error().Err(err).Str("dir", a.dir).Msg("failed to create archive directory")
		return fmt.Errorf("failed to create archive directory %s: %w", a.dir, err)
	}

	path := filepath.Join(a.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		a.logger.Error().Err(err).Str("file", path).Msg("failed to write archive file")
		return fmt.Errorf("failed to write archive file %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalise archive file %s: %w", path, err)
	}

	a.logger.Info().
		Str("file", path).
		Int("documents", len(docs)).
		Int("bytes", len(data)).
		Msg("archive written")

	return nil
}
