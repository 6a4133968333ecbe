package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vodforge/models"
)

// fsStore keeps objects on the local filesystem under a base directory.
// Useful for single-node deployments serving artifacts directly, and for
// tests.
type fsStore struct {
	baseDir string
}

func newFSStore(cfg models.StoreConfig) (*fsStore, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("fs store missing baseDir")
	}
	return &fsStore{baseDir: cfg.BaseDir}, nil
}

func (f *fsStore) objectPath(key string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(key))
}

func (f *fsStore) Download(ctx context.Context, key, localPath string) error {
	src, err := os.Open(f.objectPath(key))
	if err != nil {
		return fmt.Errorf("open object %s: %w", key, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy object %s: %w", key, err)
	}
	return nil
}

func (f *fsStore) Upload(ctx context.Context, localPath, key, contentType string) error {
	target := f.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create directories for %s: %w", key, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
