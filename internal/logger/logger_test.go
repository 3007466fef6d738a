package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Info("static load complete", "partners", 12)
	Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "salesops.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "static load complete") {
		t.Errorf("log file missing info line: %q", content)
	}
	if !strings.Contains(content, "partners=12") {
		t.Errorf("log file missing key/value pair: %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Errorf("debug line written at info level: %q", content)
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil
	// Must not panic before Init
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}

func TestComponentTagsEntries(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	ctrl := Component("controller")
	ctrl.Warn("failed to load sellers", "channel", "5")
	ctrl.Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "logs", FileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "component=controller") {
		t.Errorf("log line missing component: %q", content)
	}
	if !strings.Contains(content, "channel=5") {
		t.Errorf("log line lost its own key/value pairs: %q", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Errorf("component debug line written at info level: %q", content)
	}
}

func TestComponentWithoutInit(t *testing.T) {
	Logger = nil
	Component("api").Info("x", "k", "v")
}
