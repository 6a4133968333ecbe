package routes

import (
	"encoding/json"
	"net/http"

	"vodforge/failures"
	"vodforge/logger"
	"vodforge/results"
)

// FailureQueryHandler returns the failure record for one job.
func (h *Handlers) FailureQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id parameter required", http.StatusBadRequest)
		return
	}

	record, err := failures.GetFailure(id)
	if err != nil {
		http.Error(w, "Failure not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		logger.Errorf("Failed to encode failure record: %v", err)
	}
}

// FailureListHandler returns all stored failure records.
func (h *Handlers) FailureListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := failures.ListFailures()
	if err != nil {
		logger.Errorf("Failed to list failures: %v", err)
		http.Error(w, "Failed to list failures", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		logger.Errorf("Failed to encode failure list: %v", err)
	}
}

// ResultQueryHandler returns the completed-job record for one job.
func (h *Handlers) ResultQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id parameter required", http.StatusBadRequest)
		return
	}

	record, err := results.GetResult(id)
	if err != nil {
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		logger.Errorf("Failed to encode result record: %v", err)
	}
}

// ResultListHandler returns all stored completed-job records.
func (h *Handlers) ResultListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := results.ListResults()
	if err != nil {
		logger.Errorf("Failed to list results: %v", err)
		http.Error(w, "Failed to list results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		logger.Errorf("Failed to encode result list: %v", err)
	}
}
