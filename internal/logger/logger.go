// Package logger provides leveled logging to daily-rotated files.
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, case-insensitively. Unknown names
// default to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Config holds logger configuration.
type Config struct {
	LogDir        string
	Level         Level
	RetentionDays int
}

// DefaultConfig returns the default logger configuration. Logs go to
// $XDG_STATE_HOME/kiri/logs, falling back to ~/.local/state/kiri/logs.
func DefaultConfig() Config {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".local", "state")
	}

	return Config{
		LogDir:        filepath.Join(stateDir, "kiri", "logs"),
		Level:         INFO,
		RetentionDays: 7,
	}
}

// Logger writes leveled messages to a log file that rotates daily.
type Logger struct {
	mu            sync.Mutex
	level         Level
	file          *os.File
	out           *log.Logger
	logDir        string
	currentDay    string
	retentionDays int
}

// New creates a logger and opens today's log file.
func New(config Config) (*Logger, error) {
	l := &Logger{
		level:         config.Level,
		logDir:        config.LogDir,
		retentionDays: config.RetentionDays,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.rotateLocked(); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return l, nil
}

// rotateLocked opens a new log file when the day changes. Callers must
// hold l.mu.
func (l *Logger) rotateLocked() error {
	today := time.Now().Format("20060102")
	if l.currentDay == today && l.file != nil {
		return nil
	}

	if l.file != nil {
		l.file.Close()
	}

	if err := os.MkdirAll(l.logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(l.logDir, fmt.Sprintf("kiri-%s.log", today))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l.file = file
	l.currentDay = today
	l.out = log.New(file, "", log.LstdFlags)

	l.cleanOldLogsLocked()
	return nil
}

// cleanOldLogsLocked deletes log files older than the retention window.
func (l *Logger) cleanOldLogsLocked() {
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)

	entries, err := os.ReadDir(l.logDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(l.logDir, entry.Name()))
		}
	}
}

func (l *Logger) logf(level Level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	if err := l.rotateLocked(); err != nil {
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...any) { l.logf(DEBUG, format, v...) }

// Info logs an informational message.
func (l *Logger) Info(format string, v ...any) { l.logf(INFO, format, v...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...any) { l.logf(WARN, format, v...) }

// Error logs an error message.
func (l *Logger) Error(format string, v ...any) { l.logf(ERROR, format, v...) }

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
