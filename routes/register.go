// Package routes exposes the worker over HTTP: authenticated job submission
// plus operational status and record queries.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"vodforge/auth"
	"vodforge/models"
	"vodforge/worker"
)

// Handlers bundles the dependencies of every HTTP handler.
type Handlers struct {
	Worker    *worker.Worker
	JWTSecret string
}

// Register attaches all routes to the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/jobs", h.SubmitHandler)
	mux.HandleFunc("/health", h.HealthHandler)
	mux.HandleFunc("/version", h.VersionHandler)
	mux.HandleFunc("/status", h.JobStatusHandler)
	mux.HandleFunc("/cancel", h.CancelJobHandler)
	mux.HandleFunc("/failures", h.FailureQueryHandler)
	mux.HandleFunc("/failures/list", h.FailureListHandler)
	mux.HandleFunc("/results", h.ResultQueryHandler)
	mux.HandleFunc("/results/list", h.ResultListHandler)
	mux.HandleFunc("/credentials", h.CredentialsHandler)
}

// verifyToken checks the Authorization header and returns the job claims.
func (h *Handlers) verifyToken(r *http.Request) (*models.JobClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return nil, fmt.Errorf("invalid authorization header format")
	}
	return auth.VerifyJobToken(token, auth.VerifyConfig{SecretKey: []byte(h.JWTSecret)})
}
