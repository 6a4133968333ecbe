// Package failures keeps a record of every failed job. Job credentials and
// webhook secrets are never written here; only a summary is stored.
package failures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"vodforge/models"
)

// JobSummary is the credential-free subset of a job kept with a failure.
type JobSummary struct {
	MediaID   string           `json:"media_id"`
	CreatorID string           `json:"creator_id"`
	Type      models.MediaType `json:"type"`
	InputKey  string           `json:"input_key"`
}

// Record represents one processing failure.
type Record struct {
	JobID     string     `json:"job_id"`
	Timestamp time.Time  `json:"timestamp"`
	Error     string     `json:"error"`
	Job       JobSummary `json:"job"`
}

var db *pebble.DB

// Init initializes the failure store.
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open failure store: %w", err)
	}
	return nil
}

// Close closes the failure store.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// StoreFailure records a failed job.
func StoreFailure(jobID string, job models.Job, cause error) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}
	record := Record{
		JobID:     jobID,
		Timestamp: time.Now(),
		Error:     cause.Error(),
		Job: JobSummary{
			MediaID:   job.MediaID,
			CreatorID: job.CreatorID,
			Type:      job.Type,
			InputKey:  job.InputKey,
		},
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode failure record: %w", err)
	}
	return db.Set([]byte(jobID), data, pebble.Sync)
}

// GetFailure returns the failure record for one job ID.
func GetFailure(jobID string) (Record, error) {
	if db == nil {
		return Record{}, fmt.Errorf("failure store not initialized")
	}
	value, closer, err := db.Get([]byte(jobID))
	if err != nil {
		return Record{}, fmt.Errorf("failure for job %s not found: %w", jobID, err)
	}
	defer closer.Close()

	var record Record
	if err := json.Unmarshal(value, &record); err != nil {
		return Record{}, fmt.Errorf("failed to decode failure record: %w", err)
	}
	return record, nil
}

// ListFailures returns every stored failure record.
func ListFailures() ([]Record, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate failure store: %w", err)
	}
	defer iter.Close()

	var records []Record
	for iter.First(); iter.Valid(); iter.Next() {
		var record Record
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, iter.Error()
}

// CleanupOldRecords removes records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	records, err := ListFailures()
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, record := range records {
		if record.Timestamp.Before(cutoff) {
			if err := db.Delete([]byte(record.JobID), pebble.Sync); err != nil {
				return fmt.Errorf("failed to delete failure %s: %w", record.JobID, err)
			}
		}
	}
	return nil
}
