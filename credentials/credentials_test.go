package credentials

import (
	"path/filepath"
	"testing"

	"vodforge/models"
)

func TestStoreGetDelete(t *testing.T) {
	if err := OpenDB(filepath.Join(t.TempDir(), "credentials")); err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer CloseDB()

	cfg := models.StoreConfig{
		Provider:        "s3",
		Endpoint:        "https://r2.example.com",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "media",
	}
	if err := StoreCredentials("r2-prod", cfg); err != nil {
		t.Fatalf("StoreCredentials failed: %v", err)
	}

	got, err := GetCredentials("r2-prod")
	if err != nil {
		t.Fatalf("GetCredentials failed: %v", err)
	}
	if got != cfg {
		t.Errorf("Config not preserved: %+v", got)
	}

	if err := DeleteCredentials("r2-prod"); err != nil {
		t.Fatalf("DeleteCredentials failed: %v", err)
	}
	if _, err := GetCredentials("r2-prod"); err == nil {
		t.Error("Expected error after deletion")
	}
}

func TestResolvePassthroughWithoutRef(t *testing.T) {
	if err := OpenDB(filepath.Join(t.TempDir(), "credentials")); err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer CloseDB()

	cfg := models.StoreConfig{Provider: "s3", Bucket: "inline"}
	got, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != cfg {
		t.Errorf("Ref-free config must pass through unchanged: %+v", got)
	}
}

func TestResolveMergesStoredConfig(t *testing.T) {
	if err := OpenDB(filepath.Join(t.TempDir(), "credentials")); err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer CloseDB()

	stored := models.StoreConfig{
		Provider:        "s3",
		Endpoint:        "https://r2.example.com",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		Bucket:          "default-bucket",
	}
	if err := StoreCredentials("r2-prod", stored); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(models.StoreConfig{CredentialsRef: "r2-prod", Bucket: "override-bucket"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Bucket != "override-bucket" {
		t.Errorf("Inline bucket must override stored one, got %s", got.Bucket)
	}
	if got.AccessKeyID != "AKIAEXAMPLE" || got.Endpoint != "https://r2.example.com" {
		t.Errorf("Stored credentials not merged: %+v", got)
	}
	if got.CredentialsRef != "" {
		t.Error("Resolved config must not carry the ref")
	}
}

func TestResolveUnknownRef(t *testing.T) {
	if err := OpenDB(filepath.Join(t.TempDir(), "credentials")); err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer CloseDB()

	if _, err := Resolve(models.StoreConfig{CredentialsRef: "nope"}); err == nil {
		t.Error("Expected error for unknown ref")
	}
}
