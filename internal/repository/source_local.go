package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	domrepo "EigenFlow/internal/domain/repository"
)

// LocalSource reads data files from a directory on disk.
type LocalSource struct {
	baseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	return &LocalSource{baseDir: baseDir}
}

func (s *LocalSource) Kind() string { return "local" }

// Fetch reads name relative to the base directory. Names cannot escape it.
func (s *LocalSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.baseDir, filepath.Clean(string(filepath.Separator)+name))
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, domrepo.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

var _ domrepo.Source = (*LocalSource)(nil)
