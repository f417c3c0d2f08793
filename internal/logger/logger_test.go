package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func todayLogPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("kiri-%s.log", time.Now().Format("20060102")))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != INFO {
		t.Errorf("Level = %v, want INFO", config.Level)
	}
	if config.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", config.RetentionDays)
	}
	if !strings.Contains(config.LogDir, filepath.Join("kiri", "logs")) {
		t.Errorf("LogDir = %q, want a kiri/logs path", config.LogDir)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" warn ", WARN},
		{"warning", WARN},
		{"Error", ERROR},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCreatesLogFile(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: INFO, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(todayLogPath(tempDir)); os.IsNotExist(err) {
		t.Errorf("log file was not created: %s", todayLogPath(tempDir))
	}
}

func TestLoggingWritesAllLevels(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: DEBUG, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message %d", 42)

	content, err := os.ReadFile(todayLogPath(tempDir))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	for _, want := range []string{
		"[DEBUG] debug message",
		"[INFO] info message",
		"[WARN] warn message",
		"[ERROR] error message 42",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: WARN, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content, err := os.ReadFile(todayLogPath(tempDir))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(content)

	if strings.Contains(got, "debug message") || strings.Contains(got, "info message") {
		t.Error("messages below WARN should be suppressed")
	}
	if !strings.Contains(got, "warn message") || !strings.Contains(got, "error message") {
		t.Error("WARN and ERROR messages should be logged")
	}
}

func TestSetLevel(t *testing.T) {
	tempDir := t.TempDir()

	logger, err := New(Config{LogDir: tempDir, Level: ERROR, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Info("before")
	logger.SetLevel(DEBUG)
	logger.Info("after")

	content, err := os.ReadFile(todayLogPath(tempDir))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "before") {
		t.Error("message logged before SetLevel should be suppressed")
	}
	if !strings.Contains(string(content), "after") {
		t.Error("message logged after SetLevel should appear")
	}
}

func TestCleanOldLogs(t *testing.T) {
	tempDir := t.TempDir()

	oldDate := time.Now().AddDate(0, 0, -10)
	oldPath := filepath.Join(tempDir, fmt.Sprintf("kiri-%s.log", oldDate.Format("20060102")))
	if err := os.WriteFile(oldPath, []byte("old log"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(oldPath, oldDate, oldDate); err != nil {
		t.Fatal(err)
	}

	logger, err := New(Config{LogDir: tempDir, Level: INFO, RetentionDays: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old log file should have been deleted")
	}
	if _, err := os.Stat(todayLogPath(tempDir)); os.IsNotExist(err) {
		t.Error("current log file should exist")
	}
}
