// Package worker tracks accepted jobs and feeds them to the pipeline one at
// a time. Encodes saturate the host, so there is no intra-worker parallelism.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vodforge/credentials"
	"vodforge/failures"
	"vodforge/logger"
	"vodforge/models"
	"vodforge/pipeline"
	"vodforge/queue"
	"vodforge/results"
)

// JobState is the intake-level state of a job.
type JobState int

const (
	JobStatePending JobState = iota
	JobStateProcessing
	JobStateCompleted
	JobStateFailed
	JobStateCancelled
)

func (s JobState) String() string {
	switch s {
	case JobStatePending:
		return "pending"
	case JobStateProcessing:
		return "processing"
	case JobStateCompleted:
		return "completed"
	case JobStateFailed:
		return "failed"
	case JobStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Worker owns the pending queue and the sequential processing loop.
type Worker struct {
	Queue    *queue.Queue
	Pipeline *pipeline.Pipeline

	mu      sync.RWMutex
	pending []string
	states  map[string]JobState
}

// New builds a worker over a queue and a pipeline.
func New(q *queue.Queue, p *pipeline.Pipeline) *Worker {
	return &Worker{
		Queue:    q,
		Pipeline: p,
		states:   make(map[string]JobState),
	}
}

// Submit persists a job and marks it pending.
func (w *Worker) Submit(id string, job models.Job) error {
	if err := w.Queue.Put(id, job); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, id)
	w.states[id] = JobStatePending
	return nil
}

// State returns the current state of a job.
func (w *Worker) State(id string) (JobState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	state, ok := w.states[id]
	return state, ok
}

// Cancel removes a job that has not started yet. A running pipeline cannot
// be interrupted; only pending jobs may be cancelled.
func (w *Worker) Cancel(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.states[id]
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	if state != JobStatePending {
		return fmt.Errorf("job %s is %s and cannot be cancelled", id, state)
	}

	for i, p := range w.pending {
		if p == id {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			break
		}
	}
	w.states[id] = JobStateCancelled
	if err := w.Queue.Delete(id); err != nil {
		return fmt.Errorf("failed to remove job %s from queue: %w", id, err)
	}
	return nil
}

// ScanPending reloads queued jobs after a restart and marks them pending.
// Jobs that were mid-pipeline at crash time are not resumed.
func (w *Worker) ScanPending() error {
	ids, err := w.Queue.List()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		if _, known := w.states[id]; !known {
			w.pending = append(w.pending, id)
			w.states[id] = JobStatePending
		}
	}
	if len(ids) > 0 {
		logger.Infof("Recovered %d queued jobs", len(ids))
	}
	return nil
}

// takeNext pops the oldest pending job, or returns false.
func (w *Worker) takeNext() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) > 0 {
		id := w.pending[0]
		w.pending = w.pending[1:]
		if w.states[id] != JobStatePending {
			continue // cancelled while queued
		}
		w.states[id] = JobStateProcessing
		return id, true
	}
	return "", false
}

func (w *Worker) setState(id string, state JobState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.states[id] = state
}

// ProcessPending runs the sequential job loop until ctx is cancelled.
func (w *Worker) ProcessPending(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		id, ok := w.takeNext()
		if !ok {
			time.Sleep(time.Second)
			continue
		}
		w.processOne(ctx, id)
	}
}

// processOne runs a single job through the pipeline and records the outcome.
func (w *Worker) processOne(ctx context.Context, id string) {
	job, err := w.Queue.Get(id)
	if err != nil {
		logger.Errorf("Failed to load job %s: %v", id, err)
		w.setState(id, JobStateFailed)
		return
	}

	if job.Delivery, err = credentials.Resolve(job.Delivery); err == nil {
		job.Archive, err = credentials.Resolve(job.Archive)
	}
	if err != nil {
		logger.Errorf("Job %s: %v", id, err)
		// The pipeline was never reached, so the terminal notification is owed
		// from here. Delivery errors are logged and swallowed as in the
		// pipeline's own failure path.
		if derr := w.Pipeline.Deliver(ctx, job.WebhookURL, job.WebhookSecret, models.FailedResult(job.MediaID, err)); derr != nil {
			logger.Errorf("Job %s: failure webhook not delivered: %v", id, derr)
		}
		w.recordFailure(id, job, err)
		return
	}

	result, err := w.Pipeline.Run(ctx, job)
	if err != nil {
		if result.Status == models.StatusCompleted {
			// The artifacts were published and only delivery failed; keep the
			// payload queryable through the result store.
			if serr := results.StoreResult(id, result); serr != nil {
				logger.Errorf("Failed to store result for job %s: %v", id, serr)
			}
		}
		w.recordFailure(id, job, err)
		return
	}

	if err := results.StoreResult(id, result); err != nil {
		logger.Errorf("Failed to store result for job %s: %v", id, err)
		// The webhook already went out; don't fail the job over bookkeeping.
	}
	if err := w.Queue.Delete(id); err != nil {
		logger.Errorf("Failed to dequeue job %s: %v", id, err)
	}
	w.setState(id, JobStateCompleted)
	logger.Infof("Job %s completed", id)
}

func (w *Worker) recordFailure(id string, job models.Job, cause error) {
	if err := failures.StoreFailure(id, job, cause); err != nil {
		logger.Errorf("Failed to store failure for job %s: %v", id, err)
	}
	if err := w.Queue.Delete(id); err != nil {
		logger.Errorf("Failed to dequeue job %s: %v", id, err)
	}
	w.setState(id, JobStateFailed)
}
