package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/lifemap/internal/constants"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("debug message")
	Info("info message")
	Warn("warning message", "entry", "2024-06-09")
	Error("error message")

	logFile := filepath.Join(logDir, constants.AppName+".log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Log file is empty after a warning")
	}
}

func TestInitDebugMode(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	Debug("debug message in debug mode")
	With("component", "narrator").Info("child logger")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// None of these may panic before Init.
	Debug("debug message")
	Info("info message")
	Warn("warning message")
	Error("error message")

	child := With("component", "feed")
	if child == nil {
		t.Fatal("With() returned nil before Init")
	}
	child.Error("discarded")
}

func TestInitWithInvalidDirectory(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	// A regular file where the config directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Config{ConfigDir: blocker}); err == nil {
		t.Error("Init() expected an error when the log directory cannot be created")
	}
}
