// Package credentials stores named store configurations so submitters can
// reference a credential set by name instead of inlining secrets per job.
package credentials

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"vodforge/models"
)

var db *pebble.DB

// OpenDB opens the Pebble DB for credentials at the specified path.
func OpenDB(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open credentials store: %w", err)
	}
	return nil
}

// CloseDB closes the DB.
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// StoreCredentials stores the config under the given name.
func StoreCredentials(name string, cfg models.StoreConfig) error {
	if db == nil {
		return fmt.Errorf("credentials store not initialized")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode credentials %s: %w", name, err)
	}
	return db.Set([]byte(name), data, pebble.Sync)
}

// GetCredentials returns the config stored under name.
func GetCredentials(name string) (models.StoreConfig, error) {
	if db == nil {
		return models.StoreConfig{}, fmt.Errorf("credentials store not initialized")
	}
	value, closer, err := db.Get([]byte(name))
	if err != nil {
		return models.StoreConfig{}, fmt.Errorf("credentials %s not found: %w", name, err)
	}
	defer closer.Close()

	var cfg models.StoreConfig
	if err := json.Unmarshal(value, &cfg); err != nil {
		return models.StoreConfig{}, fmt.Errorf("failed to decode credentials %s: %w", name, err)
	}
	return cfg, nil
}

// DeleteCredentials deletes the config stored under name.
func DeleteCredentials(name string) error {
	if db == nil {
		return fmt.Errorf("credentials store not initialized")
	}
	return db.Delete([]byte(name), pebble.Sync)
}

// Resolve replaces a credentialsRef with the stored config. Fields set
// inline on the job (provider, bucket, endpoint) override the stored ones.
func Resolve(cfg models.StoreConfig) (models.StoreConfig, error) {
	if cfg.CredentialsRef == "" {
		return cfg, nil
	}
	stored, err := GetCredentials(cfg.CredentialsRef)
	if err != nil {
		return models.StoreConfig{}, fmt.Errorf("resolve credentialsRef %q: %w", cfg.CredentialsRef, err)
	}
	if cfg.Provider != "" {
		stored.Provider = cfg.Provider
	}
	if cfg.Bucket != "" {
		stored.Bucket = cfg.Bucket
	}
	if cfg.Endpoint != "" {
		stored.Endpoint = cfg.Endpoint
	}
	stored.CredentialsRef = ""
	return stored, nil
}
