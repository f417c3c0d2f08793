// Package tray drives the system tray icon and menu.
package tray

import (
	"context"
	"sync"

	"github.com/getlantern/systray"
)

// State represents the daemon state shown in the tray.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Device represents an audio input device shown in the device submenu.
type Device struct {
	ID        int
	Name      string
	IsDefault bool
	IsCurrent bool
}

// Config holds tray callbacks.
type Config struct {
	OnReady        func() // called once the tray is up
	OnToggleRecord func()
	OnOpenNotes    func()
	OnSyncNotes    func()
	OnDeviceChange func(deviceID int)
	OnQuit         func()
}

// Manager manages the system tray icon and menu.
type Manager struct {
	mu    sync.RWMutex
	state State
	ready bool

	onReady        func()
	onToggleRecord func()
	onOpenNotes    func()
	onSyncNotes    func()
	onDeviceChange func(deviceID int)
	onQuit         func()

	menuToggle  *systray.MenuItem
	menuDevices *systray.MenuItem
	menuNotes   *systray.MenuItem
	menuSync    *systray.MenuItem
	menuQuit    *systray.MenuItem

	deviceItems   []*systray.MenuItem
	deviceCancels []context.CancelFunc
}

// NewManager creates a tray manager.
func NewManager(config Config) *Manager {
	return &Manager{
		state:          StateIdle,
		onReady:        config.OnReady,
		onToggleRecord: config.OnToggleRecord,
		onOpenNotes:    config.OnOpenNotes,
		onSyncNotes:    config.OnSyncNotes,
		onDeviceChange: config.OnDeviceChange,
		onQuit:         config.OnQuit,
	}
}

// Run starts the system tray. Blocks until Quit.
func (m *Manager) Run() {
	systray.Run(m.setup, func() {})
}

func (m *Manager) setup() {
	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()

	systray.SetIcon(iconIdle)
	systray.SetTooltip("kiri")

	m.menuToggle = systray.AddMenuItem("Start recording", "Start or stop recording")
	m.menuDevices = systray.AddMenuItem("Input device", "Select input device")
	systray.AddSeparator()
	m.menuNotes = systray.AddMenuItem("Open notes", "Open the notes directory")
	m.menuSync = systray.AddMenuItem("Sync notes", "Commit and push notes")
	systray.AddSeparator()
	m.menuQuit = systray.AddMenuItem("Quit", "Quit kiri")

	go m.handleMenuEvents()

	if m.onReady != nil {
		m.onReady()
	}
}

func (m *Manager) handleMenuEvents() {
	for {
		select {
		case <-m.menuToggle.ClickedCh:
			if m.onToggleRecord != nil {
				m.onToggleRecord()
			}
		case <-m.menuNotes.ClickedCh:
			if m.onOpenNotes != nil {
				m.onOpenNotes()
			}
		case <-m.menuSync.ClickedCh:
			if m.onSyncNotes != nil {
				m.onSyncNotes()
			}
		case <-m.menuQuit.ClickedCh:
			if m.onQuit != nil {
				m.onQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetState updates the tray icon and menu for the given state.
func (m *Manager) SetState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state

	// systray calls are only valid once Run has initialized the tray.
	if !m.ready {
		return
	}

	switch state {
	case StateIdle:
		systray.SetIcon(iconIdle)
		systray.SetTooltip("kiri - idle")
		if m.menuToggle != nil {
			m.menuToggle.SetTitle("Start recording")
		}
	case StateRecording:
		systray.SetIcon(iconRecording)
		systray.SetTooltip("kiri - recording")
		if m.menuToggle != nil {
			m.menuToggle.SetTitle("Stop recording")
		}
	case StateProcessing:
		systray.SetIcon(iconProcessing)
		systray.SetTooltip("kiri - transcribing")
		if m.menuToggle != nil {
			m.menuToggle.SetTitle("Transcribing...")
		}
	}
}

// GetState returns the current state.
func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// UpdateDeviceMenu replaces the device submenu with the given devices.
func (m *Manager) UpdateDeviceMenu(devices []Device) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cancel := range m.deviceCancels {
		cancel()
	}
	m.deviceCancels = nil

	// systray has no item removal, hide the stale ones.
	for _, item := range m.deviceItems {
		item.Hide()
	}
	m.deviceItems = nil

	for _, device := range devices {
		prefix := ""
		if device.IsCurrent {
			prefix = "✓ "
		}
		tooltip := ""
		if device.IsDefault {
			tooltip = "System default device"
		}

		item := m.menuDevices.AddSubMenuItem(prefix+device.Name, tooltip)
		m.deviceItems = append(m.deviceItems, item)

		ctx, cancel := context.WithCancel(context.Background())
		m.deviceCancels = append(m.deviceCancels, cancel)

		go func(id int, item *systray.MenuItem, ctx context.Context) {
			for {
				select {
				case <-ctx.Done():
					return
				case <-item.ClickedCh:
					if m.onDeviceChange != nil {
						m.onDeviceChange(id)
					}
				}
			}
		}(device.ID, item, ctx)
	}
}

// Quit shuts down the system tray.
func (m *Manager) Quit() {
	systray.Quit()
}
