package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"vodforge/models"
)

// gcsStore writes to a Google Cloud Storage bucket using a service account
// key supplied with the job (base64 or raw JSON).
type gcsStore struct {
	bucket          string
	credentialsJSON []byte
}

func newGCSStore(cfg models.StoreConfig) (*gcsStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs store missing bucket")
	}
	if cfg.CredentialsJSON == "" {
		return nil, fmt.Errorf("gcs store missing credentialsJson")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
	if err != nil {
		key = []byte(cfg.CredentialsJSON)
	}
	return &gcsStore{bucket: cfg.Bucket, credentialsJSON: key}, nil
}

func (g *gcsStore) newClient(ctx context.Context) (*gcstorage.Client, error) {
	client, err := gcstorage.NewClient(ctx, option.WithCredentialsJSON(g.credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}

func (g *gcsStore) Download(ctx context.Context, key, localPath string) error {
	client, err := g.newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	reader, err := client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open object %s: %w", key, err)
	}
	defer reader.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("copy object %s: %w", key, err)
	}
	return nil
}

func (g *gcsStore) Upload(ctx context.Context, localPath, key, contentType string) error {
	client, err := g.newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer file.Close()

	wc := client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		wc.ContentType = contentType
	}
	if _, err := io.Copy(wc, file); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}
