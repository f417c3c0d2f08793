// Package notification sends desktop notifications via notify-send.
package notification

import (
	"fmt"
	"os/exec"
)

// Urgency maps to the notify-send urgency levels.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Notification is a single desktop notification.
type Notification struct {
	Title   string
	Message string
	Urgency Urgency
}

// Manager sends notifications on behalf of the application.
type Manager struct {
	appName string
	run     func(name string, args ...string) error
}

// NewManager creates a notification manager.
func NewManager(appName string) *Manager {
	return &Manager{
		appName: appName,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send delivers a notification via notify-send.
func (m *Manager) Send(n *Notification) error {
	if n == nil {
		return fmt.Errorf("notification cannot be nil")
	}

	urgency := n.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	title := n.Title
	if title == "" {
		title = m.appName
	}

	args := []string{"--app-name", m.appName, "--urgency", string(urgency), title, n.Message}
	if err := m.run("notify-send", args...); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// Info sends a normal-urgency notification.
func (m *Manager) Info(message string) error {
	return m.Send(&Notification{Message: message})
}

// Error sends a critical-urgency notification.
func (m *Manager) Error(message string) error {
	return m.Send(&Notification{Message: message, Urgency: UrgencyCritical})
}

// RecordingStarted notifies that capture has begun.
func (m *Manager) RecordingStarted() error {
	return m.Send(&Notification{Message: "Recording started", Urgency: UrgencyLow})
}

// RecordingStopped notifies that capture has ended.
func (m *Manager) RecordingStopped() error {
	return m.Send(&Notification{Message: "Recording stopped", Urgency: UrgencyLow})
}

// TranscriptionComplete notifies with a preview of the transcript.
func (m *Manager) TranscriptionComplete(text string) error {
	preview := text
	if len(preview) > 80 {
		preview = preview[:77] + "..."
	}
	return m.Info("Transcribed: " + preview)
}

// TranscriptionFailed notifies that transcription failed.
func (m *Manager) TranscriptionFailed(reason string) error {
	message := "Transcription failed"
	if reason != "" {
		message += ": " + reason
	}
	return m.Error(message)
}

// RecordingFailed notifies that capture failed.
func (m *Manager) RecordingFailed(reason string) error {
	message := "Recording failed"
	if reason != "" {
		message += ": " + reason
	}
	return m.Error(message)
}

// DeviceNotFound notifies that no usable input device was found.
func (m *Manager) DeviceNotFound() error {
	return m.Error("No audio input device found. Check your microphone connection.")
}

// ModelNotFound notifies that the model file is missing.
func (m *Manager) ModelNotFound(modelPath string) error {
	return m.Error(fmt.Sprintf("Model file not found: %s", modelPath))
}
