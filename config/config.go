package config

import (
	"os"
	"path/filepath"
)

// GetDataDir returns the directory where vodforge keeps its databases.
// Priority: VODFORGE_DATA_DIR environment variable > "./data" default.
func GetDataDir() string {
	if dir := os.Getenv("VODFORGE_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetWorkDir returns the root directory for per-job scratch workspaces.
// Each job gets its own subdirectory that is removed when the job ends.
func GetWorkDir() string {
	if dir := os.Getenv("VODFORGE_WORK_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// GetListenAddr returns the address the HTTP intake listens on.
func GetListenAddr() string {
	if addr := os.Getenv("VODFORGE_LISTEN_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// GetJWTSecret returns the shared secret used to verify job submission tokens.
// An empty secret disables the intake; main refuses to start without it.
func GetJWTSecret() string {
	return os.Getenv("VODFORGE_JWT_SECRET")
}

// GetLogFile returns the optional log file path. Empty means console only.
func GetLogFile() string {
	return os.Getenv("VODFORGE_LOG_FILE")
}

// GetFFmpegBin returns the ffmpeg binary to invoke for every encode stage.
func GetFFmpegBin() string {
	if bin := os.Getenv("VODFORGE_FFMPEG"); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// GetFFprobeBin returns the ffprobe binary used by the media prober.
func GetFFprobeBin() string {
	if bin := os.Getenv("VODFORGE_FFPROBE"); bin != "" {
		return bin
	}
	return "ffprobe"
}

// GetAudiowaveformBin returns the audiowaveform binary used for audio jobs.
func GetAudiowaveformBin() string {
	if bin := os.Getenv("VODFORGE_AUDIOWAVEFORM"); bin != "" {
		return bin
	}
	return "audiowaveform"
}

// GetQueueDBPath returns the path to the pending-job queue database.
// Path: {DATA_DIR}/queue.db
func GetQueueDBPath() string {
	return filepath.Join(GetDataDir(), "queue.db")
}

// GetResultsDBPath returns the path to the completed-job record database.
// Path: {DATA_DIR}/results.db
func GetResultsDBPath() string {
	return filepath.Join(GetDataDir(), "results.db")
}

// GetFailuresDBPath returns the path to the failed-job record database.
// Path: {DATA_DIR}/failures.db
func GetFailuresDBPath() string {
	return filepath.Join(GetDataDir(), "failures.db")
}

// GetCredentialsDBPath returns the path to the named store-credentials database.
// Path: {DATA_DIR}/credentials.db
func GetCredentialsDBPath() string {
	return filepath.Join(GetDataDir(), "credentials.db")
}
