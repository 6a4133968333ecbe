package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() {
		Close()
		Init("", true)
	}()

	Infof("job %s accepted", "m1")
	Errorf("job %s failed", "m2")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Log file unreadable: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[INFO]") || !strings.Contains(content, "job m1 accepted") {
		t.Errorf("Missing info line:\n%s", content)
	}
	if !strings.Contains(content, "[ERROR]") || !strings.Contains(content, "job m2 failed") {
		t.Errorf("Missing error line:\n%s", content)
	}
	if strings.Contains(content, "\033[") {
		t.Error("File output must not contain color codes")
	}
}

func TestSetLevelFilters(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() {
		Close()
		SetLevel(DEBUG)
		Init("", true)
	}()

	SetLevel(WARN)
	Debug("hidden debug")
	Info("hidden info")
	Warn("visible warning")

	data, _ := os.ReadFile(logPath)
	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Errorf("Filtered levels leaked:\n%s", content)
	}
	if !strings.Contains(content, "visible warning") {
		t.Errorf("Warning dropped:\n%s", content)
	}
}

func TestInitRequiresDestination(t *testing.T) {
	if err := Init("", false); err == nil {
		t.Error("Expected error with no outputs")
	}
	Init("", true)
}
