package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("VODFORGE_DATA_DIR", "")
	t.Setenv("VODFORGE_LISTEN_ADDR", "")
	t.Setenv("VODFORGE_FFMPEG", "")

	if got := GetDataDir(); got != "./data" {
		t.Errorf("GetDataDir() = %q", got)
	}
	if got := GetListenAddr(); got != ":8080" {
		t.Errorf("GetListenAddr() = %q", got)
	}
	if got := GetFFmpegBin(); got != "ffmpeg" {
		t.Errorf("GetFFmpegBin() = %q", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VODFORGE_DATA_DIR", "/var/lib/vodforge")
	t.Setenv("VODFORGE_LISTEN_ADDR", ":9090")
	t.Setenv("VODFORGE_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")

	if got := GetDataDir(); got != "/var/lib/vodforge" {
		t.Errorf("GetDataDir() = %q", got)
	}
	if got := GetListenAddr(); got != ":9090" {
		t.Errorf("GetListenAddr() = %q", got)
	}
	if got := GetFFmpegBin(); got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("GetFFmpegBin() = %q", got)
	}
}

func TestDBPathsUnderDataDir(t *testing.T) {
	t.Setenv("VODFORGE_DATA_DIR", "/data")

	cases := map[string]string{
		GetQueueDBPath():       filepath.Join("/data", "queue.db"),
		GetResultsDBPath():     filepath.Join("/data", "results.db"),
		GetFailuresDBPath():    filepath.Join("/data", "failures.db"),
		GetCredentialsDBPath(): filepath.Join("/data", "credentials.db"),
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("DB path = %q, want %q", got, want)
		}
	}
}
