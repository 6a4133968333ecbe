// Package queue persists accepted-but-unprocessed jobs so a restart does not
// drop them. Jobs already mid-pipeline at crash time are lost by design.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"vodforge/models"
)

// Queue is a small wrapper around a Pebble DB keyed by job ID.
type Queue struct {
	db   *pebble.DB
	path string
}

// Open opens (or creates) the queue database at path.
func Open(path string) (*Queue, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open queue: %w", err)
	}
	return &Queue{db: db, path: path}, nil
}

// Close closes the underlying DB.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Put stores a pending job under its ID.
func (q *Queue) Put(id string, job models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", id, err)
	}
	return q.db.Set([]byte(id), data, pebble.Sync)
}

// Get returns the job stored under id.
func (q *Queue) Get(id string) (models.Job, error) {
	value, closer, err := q.db.Get([]byte(id))
	if err != nil {
		return models.Job{}, fmt.Errorf("job %s not found: %w", id, err)
	}
	defer closer.Close()

	var job models.Job
	if err := json.Unmarshal(value, &job); err != nil {
		return models.Job{}, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return job, nil
}

// Delete removes the job from the queue.
func (q *Queue) Delete(id string) error {
	return q.db.Delete([]byte(id), pebble.Sync)
}

// List returns the IDs of every queued job.
func (q *Queue) List() ([]string, error) {
	iter, err := q.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate queue: %w", err)
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Key()))
	}
	return ids, iter.Error()
}
