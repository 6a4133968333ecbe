package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vodforge/models"
)

func TestContentTypeFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"index.m3u8", "application/vnd.apple.mpegurl"},
		{"segment_001.ts", "video/MP2T"},
		{"waveform.json", "application/json"},
		{"waveform.PNG", "image/png"},
		{"auto-generated.jpg", "image/jpeg"},
		{"still.jpeg", "image/jpeg"},
		{"mezzanine.mp4", "video/mp4"},
		{"notes.txt", ""},
	}
	for _, c := range cases {
		if got := ContentTypeFor(c.path); got != c.want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestNewProviderSelection(t *testing.T) {
	if _, err := New(models.StoreConfig{Provider: "fs", BaseDir: t.TempDir()}); err != nil {
		t.Errorf("fs provider failed: %v", err)
	}
	if _, err := New(models.StoreConfig{Provider: "ceph"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	if _, err := New(models.StoreConfig{Provider: "fs"}); err == nil {
		t.Error("Expected error for fs store without baseDir")
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	base := t.TempDir()
	store, err := New(models.StoreConfig{Provider: "fs", BaseDir: base})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	work := t.TempDir()
	src := filepath.Join(work, "in.mp4")
	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := UploadFile(ctx, store, src, "creator/mezzanine/media/mezzanine.mp4"); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}

	dst := filepath.Join(work, "out.mp4")
	if err := Download(ctx, store, "creator/mezzanine/media/mezzanine.mp4", dst); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "payload" {
		t.Errorf("Round trip corrupted data: %q", data)
	}
}

func TestDownloadMissingObject(t *testing.T) {
	store, _ := New(models.StoreConfig{Provider: "fs", BaseDir: t.TempDir()})
	err := Download(context.Background(), store, "creator/hls/media/index.m3u8", filepath.Join(t.TempDir(), "out"))
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("Expected DownloadError, got %v", err)
	}
	if dlErr.Key != "creator/hls/media/index.m3u8" {
		t.Errorf("Error carries wrong key: %s", dlErr.Key)
	}
}

func TestUploadDirPreservesLayout(t *testing.T) {
	local := t.TempDir()
	files := []string{
		"master.m3u8",
		"720p/index.m3u8",
		"720p/segment_000.ts",
		"preview/preview.m3u8",
	}
	for _, rel := range files {
		path := filepath.Join(local, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(rel), 0644); err != nil {
			t.Fatal(err)
		}
	}

	base := t.TempDir()
	store, _ := New(models.StoreConfig{Provider: "fs", BaseDir: base})
	if err := UploadDir(context.Background(), store, local, "creator/hls/media/"); err != nil {
		t.Fatalf("UploadDir failed: %v", err)
	}

	for _, rel := range files {
		target := filepath.Join(base, "creator", "hls", "media", filepath.FromSlash(rel))
		data, err := os.ReadFile(target)
		if err != nil {
			t.Errorf("Missing uploaded object %s: %v", rel, err)
			continue
		}
		if string(data) != rel {
			t.Errorf("Object %s corrupted: %q", rel, data)
		}
	}
}

func TestUploadDirPropagatesFailure(t *testing.T) {
	local := t.TempDir()
	if err := os.WriteFile(filepath.Join(local, "index.m3u8"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := UploadDir(context.Background(), failingStore{}, local, "creator/hls/media/")
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UploadError, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Download(ctx context.Context, key, localPath string) error {
	return errors.New("not implemented")
}

func (failingStore) Upload(ctx context.Context, localPath, key, contentType string) error {
	return errors.New("bucket unreachable")
}
