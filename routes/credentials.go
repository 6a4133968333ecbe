package routes

import (
	"encoding/json"
	"net/http"

	"vodforge/credentials"
	"vodforge/logger"
	"vodforge/models"
)

// CredentialsRequest registers a named store configuration.
type CredentialsRequest struct {
	Name   string             `json:"name"`
	Config models.StoreConfig `json:"config"`
}

// CredentialsHandler registers or removes named store credentials. Requires
// the same bearer authentication as job submission.
func (h *Handlers) CredentialsHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Credentials request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if _, err := h.verifyToken(r); err != nil {
		logger.Warnf("Rejected credentials request: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req CredentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if err := credentials.StoreCredentials(req.Name, req.Config); err != nil {
			logger.Errorf("Failed to store credentials %s: %v", req.Name, err)
			http.Error(w, "Failed to store credentials", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "name parameter required", http.StatusBadRequest)
			return
		}
		if err := credentials.DeleteCredentials(name); err != nil {
			logger.Errorf("Failed to delete credentials %s: %v", name, err)
			http.Error(w, "Failed to delete credentials", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
