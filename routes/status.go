package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vodforge/logger"
)

// JobStatusResponse represents the job status response.
type JobStatusResponse struct {
	JobID string `json:"jobId"`
	State string `json:"state"`
}

// JobStatusHandler returns the intake-level state of a job by ID.
func (h *Handlers) JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Job status request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	state, exists := h.Worker.State(id)
	if !exists {
		http.Error(w, fmt.Sprintf("Job %s not found", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(JobStatusResponse{JobID: id, State: state.String()}); err != nil {
		logger.Errorf("Failed to encode status response: %v", err)
	}
}

// CancelJobHandler cancels a job that has not started processing yet.
func (h *Handlers) CancelJobHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Job cancel request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	if err := h.Worker.Cancel(id); err != nil {
		logger.Warnf("Cancel rejected for job %s: %v", id, err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	logger.Infof("Cancelled job %s", id)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(JobStatusResponse{JobID: id, State: "cancelled"}); err != nil {
		logger.Errorf("Failed to encode cancel response: %v", err)
	}
}
