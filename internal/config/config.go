// Package config loads and persists application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirivoice/kiri/internal/audio"
)

// Config holds application configuration.
type Config struct {
	NotesDir       string   `json:"notes_dir"`
	Model          string   `json:"model"`
	Language       string   `json:"language"`
	TranscriberCmd string   `json:"transcriber_command"`
	AudioDevice    string   `json:"audio_device"` // substring of the device name; empty = default
	MaxRecordTime  int      `json:"max_record_time"` // seconds
	RecordingMode  string   `json:"recording_mode"`  // "press-to-hold" or "toggle"
	Hotkey         Hotkey   `json:"hotkey"`
	WakeWord       bool     `json:"wake_word"`
	WakePhrases    []string `json:"wake_phrases"`
	ServerPort     int      `json:"server_port"`

	// Endpoint-detection thresholds.
	SilenceThreshold  float64 `json:"silence_threshold"`   // normalized RMS
	SilenceDuration   float64 `json:"silence_duration"`    // seconds
	SpeechMinDuration float64 `json:"speech_min_duration"` // seconds
}

// Hotkey holds the push-to-talk key combination.
type Hotkey struct {
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Key   string `json:"key"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		NotesDir:          filepath.Join(home, "kiri"),
		Model:             "ggml-medium.bin",
		Language:          "en",
		TranscriberCmd:    "whisper-cli",
		MaxRecordTime:     120,
		RecordingMode:     "toggle",
		Hotkey:            Hotkey{Ctrl: true, Alt: true, Key: "Space"},
		WakePhrases:       []string{"hey kiri", "kiri"},
		ServerPort:        18930,
		SilenceThreshold:  0.008,
		SilenceDuration:   2.5,
		SpeechMinDuration: 0.5,
	}
}

// Path returns the configuration file path:
// <user config dir>/kiri/config.json.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "kiri", "config.json")
}

// Load reads configuration from path. A missing file yields the default
// configuration; unset fields are backfilled with defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks configuration fields.
func (c *Config) Validate() error {
	if c.RecordingMode != "press-to-hold" && c.RecordingMode != "toggle" {
		return fmt.Errorf("invalid recording_mode: %s (must be 'press-to-hold' or 'toggle')", c.RecordingMode)
	}
	if c.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if c.MaxRecordTime <= 0 || c.MaxRecordTime > 600 {
		return fmt.Errorf("invalid max_record_time: %d (must be between 1 and 600 seconds)", c.MaxRecordTime)
	}
	if c.SilenceThreshold <= 0 || c.SilenceThreshold >= 1 {
		return fmt.Errorf("invalid silence_threshold: %g (must be in (0, 1))", c.SilenceThreshold)
	}
	if c.SilenceDuration <= 0 {
		return fmt.Errorf("invalid silence_duration: %g", c.SilenceDuration)
	}
	if c.SpeechMinDuration < 0 {
		return fmt.Errorf("invalid speech_min_duration: %g", c.SpeechMinDuration)
	}
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server_port: %d", c.ServerPort)
	}
	return nil
}

// AudioConfig translates the configuration into capture settings.
func (c *Config) AudioConfig() audio.Config {
	ac := audio.DefaultConfig()
	ac.DeviceName = c.AudioDevice
	ac.MaxDuration = time.Duration(c.MaxRecordTime) * time.Second
	ac.Detector = audio.DetectorConfig{
		SilenceThreshold:  c.SilenceThreshold,
		SpeechMinDuration: time.Duration(c.SpeechMinDuration * float64(time.Second)),
		SilenceDuration:   time.Duration(c.SilenceDuration * float64(time.Second)),
	}
	return ac
}

// ExpandPath expands a leading ~ to the user's home directory and makes
// the path absolute.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	return abs, nil
}
