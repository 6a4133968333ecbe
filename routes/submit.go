package routes

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"vodforge/logger"
)

// SubmitResponse acknowledges an accepted job.
type SubmitResponse struct {
	JobID   string `json:"jobId"`
	MediaID string `json:"mediaId"`
	State   string `json:"state"`
}

// SubmitHandler accepts a transcoding job. The job payload travels inside
// the signed bearer token; the request body is ignored.
func (h *Handlers) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Job submission: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := h.verifyToken(r)
	if err != nil {
		logger.Warnf("Rejected job submission: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	job := claims.Job
	if err := job.Validate(); err != nil {
		logger.Warnf("Rejected invalid job: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	if err := h.Worker.Submit(jobID, job); err != nil {
		logger.Errorf("Failed to enqueue job %s: %v", jobID, err)
		http.Error(w, "Failed to enqueue job", http.StatusInternalServerError)
		return
	}

	logger.Infof("Accepted %s job %s for media %s", job.Type, jobID, job.MediaID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(SubmitResponse{JobID: jobID, MediaID: job.MediaID, State: "pending"}); err != nil {
		logger.Errorf("Failed to encode submit response: %v", err)
	}
}
