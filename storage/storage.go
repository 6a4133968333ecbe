// Package storage provides the object-store capability used by the pipeline:
// get object, put object, and put a whole directory tree. Backends are
// selected per job from the store configuration.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"vodforge/logger"
	"vodforge/models"
)

// uploadFanout bounds the number of concurrent file transfers during a
// directory upload.
const uploadFanout = 8

// Store is one object-store destination.
type Store interface {
	Download(ctx context.Context, key, localPath string) error
	Upload(ctx context.Context, localPath, key, contentType string) error
}

// New builds a store for the given configuration. The provider defaults to
// "s3"; "gcs", "sftp" and "fs" select the alternative backends.
func New(cfg models.StoreConfig) (Store, error) {
	switch cfg.Provider {
	case "", "s3":
		return newS3Store(cfg)
	case "gcs":
		return newGCSStore(cfg)
	case "sftp":
		return newSFTPStore(cfg)
	case "fs":
		return newFSStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

// DownloadError reports a failed object fetch.
type DownloadError struct {
	Key string
	Err error
}

func (e *DownloadError) Error() string { return fmt.Sprintf("download %s: %v", e.Key, e.Err) }
func (e *DownloadError) Unwrap() error { return e.Err }

// UploadError reports a failed object put.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload %s: %v", e.Key, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// Download fetches one object to a local path.
func Download(ctx context.Context, store Store, key, localPath string) error {
	logger.Infof("Downloading %s -> %s", key, localPath)
	if err := store.Download(ctx, key, localPath); err != nil {
		return &DownloadError{Key: key, Err: err}
	}
	return nil
}

// UploadFile puts one local file under the given key, declaring a content
// type when the extension has a known one.
func UploadFile(ctx context.Context, store Store, localPath, key string) error {
	logger.Infof("Uploading %s -> %s", localPath, key)
	if err := store.Upload(ctx, localPath, key, ContentTypeFor(localPath)); err != nil {
		return &UploadError{Key: key, Err: err}
	}
	return nil
}

// UploadDir recursively uploads every file beneath localDir, preserving
// relative paths under keyPrefix. Transfers fan out concurrently; the tree
// must be fully written before this is called.
func UploadDir(ctx context.Context, store Store, localDir, keyPrefix string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadFanout)

	err := filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		key := keyPrefix + filepath.ToSlash(rel)
		g.Go(func() error {
			logger.Debugf("Uploading %s -> %s", path, key)
			if err := store.Upload(ctx, path, key, ContentTypeFor(path)); err != nil {
				return &UploadError{Key: key, Err: err}
			}
			return nil
		})
		return nil
	})
	if err != nil {
		return &UploadError{Key: keyPrefix, Err: err}
	}
	return g.Wait()
}

// ContentTypeFor maps a file extension to its upload content type. Unknown
// extensions upload without a declared type.
func ContentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/MP2T"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".mp4":
		return "video/mp4"
	default:
		return ""
	}
}
