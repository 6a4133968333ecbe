// Package results keeps the final payload of every completed job for
// operator queries; the webhook remains the primary delivery channel.
package results

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"vodforge/models"
)

// Record is one completed job.
type Record struct {
	JobID     string           `json:"job_id"`
	MediaID   string           `json:"media_id"`
	Timestamp time.Time        `json:"timestamp"`
	Result    models.JobResult `json:"result"`
}

var db *pebble.DB

// Init initializes the result store.
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	return nil
}

// Close closes the result store.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// StoreResult records the final payload of a completed job.
func StoreResult(jobID string, result models.JobResult) error {
	if db == nil {
		return fmt.Errorf("result store not initialized")
	}
	record := Record{
		JobID:     jobID,
		MediaID:   result.MediaID,
		Timestamp: time.Now(),
		Result:    result,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode result record: %w", err)
	}
	return db.Set([]byte(jobID), data, pebble.Sync)
}

// GetResult returns the record for one job ID.
func GetResult(jobID string) (Record, error) {
	if db == nil {
		return Record{}, fmt.Errorf("result store not initialized")
	}
	value, closer, err := db.Get([]byte(jobID))
	if err != nil {
		return Record{}, fmt.Errorf("result for job %s not found: %w", jobID, err)
	}
	defer closer.Close()

	var record Record
	if err := json.Unmarshal(value, &record); err != nil {
		return Record{}, fmt.Errorf("failed to decode result record: %w", err)
	}
	return record, nil
}

// ListResults returns every stored record.
func ListResults() ([]Record, error) {
	if db == nil {
		return nil, fmt.Errorf("result store not initialized")
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate result store: %w", err)
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
	records, err := ListResults()
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, record := range records {
		if record.Timestamp.Before(cutoff) {
			if err := db.Delete([]byte(record.JobID), pebble.Sync); err != nil {
				return fmt.Errorf("failed to delete result %s: %w", record.JobID, err)
			}
		}
	}
	return nil
}
