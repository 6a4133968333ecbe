package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"vodforge/config"
	"vodforge/credentials"
	"vodforge/encode"
	"vodforge/failures"
	"vodforge/logger"
	"vodforge/pipeline"
	"vodforge/queue"
	"vodforge/results"
	"vodforge/routes"
	"vodforge/toolrun"
	"vodforge/worker"
)

func main() {
	// Optional .env for local development; absence is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	if err := logger.Init(config.GetLogFile(), true); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting vodforge worker initialization")

	jwtSecret := config.GetJWTSecret()
	if jwtSecret == "" {
		logger.Fatal("VODFORGE_JWT_SECRET is required")
	}

	logger.Debug("Initializing credentials database")
	if err := credentials.OpenDB(config.GetCredentialsDBPath()); err != nil {
		logger.Fatalf("Failed to initialize credentials store: %v", err)
	}
	defer credentials.CloseDB()

	logger.Debug("Initializing failures database")
	if err := failures.Init(config.GetFailuresDBPath()); err != nil {
		logger.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer failures.Close()

	logger.Debug("Initializing results database")
	if err := results.Init(config.GetResultsDBPath()); err != nil {
		logger.Fatalf("Failed to initialize result store: %v", err)
	}
	defer results.Close()

	logger.Debug("Opening job queue")
	jobQueue, err := queue.Open(config.GetQueueDBPath())
	if err != nil {
		logger.Fatalf("Failed to open job queue: %v", err)
	}
	defer jobQueue.Close()

	enc := &encode.Encoder{
		Runner:           toolrun.ExecRunner{},
		FFmpegBin:        config.GetFFmpegBin(),
		AudiowaveformBin: config.GetAudiowaveformBin(),
	}
	pipe := pipeline.New(enc, config.GetFFprobeBin(), config.GetWorkDir())
	w := worker.New(jobQueue, pipe)

	logger.Info("Scanning for queued jobs from a previous run")
	if err := w.ScanPending(); err != nil {
		logger.Errorf("Failed to scan queued jobs: %v", err)
		// Don't exit - continue with startup
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Starting job processing loop")
	go w.ProcessPending(ctx)

	logger.Info("Starting record cleanup routine (runs every 24 hours)")
	go cleanupRoutine(ctx)

	handlers := &routes.Handlers{Worker: w, JWTSecret: jwtSecret}
	mux := http.NewServeMux()
	handlers.Register(mux)

	addr := config.GetListenAddr()
	logger.Infof("vodforge listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// cleanupRoutine periodically prunes old result and failure records.
func cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			maxAge := 30 * 24 * time.Hour
			logger.Infof("Cleaning up records older than %v", maxAge)
			if err := results.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old result records: %v", err)
			}
			if err := failures.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old failure records: %v", err)
			}
		}
	}
}
