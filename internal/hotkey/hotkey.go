// Package hotkey manages the global push-to-talk key binding.
package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

// RecordingMode defines how the hotkey drives recording.
type RecordingMode int

const (
	// PressToHold records while the key is held down.
	PressToHold RecordingMode = iota
	// Toggle starts on the first press and stops on the second.
	Toggle
)

// EventType represents the type of hotkey event.
type EventType int

const (
	// Pressed means recording should start.
	Pressed EventType = iota
	// Released means recording should stop.
	Released
)

// Event represents a hotkey event.
type Event struct {
	Type EventType
}

// Config holds hotkey configuration.
type Config struct {
	Modifiers []hotkey.Modifier
	Key       hotkey.Key
	Mode      RecordingMode
}

// DefaultConfig returns the default binding, Ctrl+Alt+Space in toggle
// mode.
func DefaultConfig() Config {
	return Config{
		Modifiers: []hotkey.Modifier{hotkey.ModCtrl, hotkey.Mod1},
		Key:       hotkey.KeySpace,
		Mode:      Toggle,
	}
}

// Manager registers a global hotkey and translates key events into
// start/stop recording events.
type Manager struct {
	hk        *hotkey.Hotkey
	config    Config
	eventChan chan Event
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
}

// New creates a hotkey manager with the default configuration.
func New() *Manager {
	return &Manager{
		config:    DefaultConfig(),
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
	}
}

// Register registers the hotkey with the system and starts delivering
// events.
func (m *Manager) Register(config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("hotkey is already running, call Close() first")
	}

	m.config = config

	// Recreate channels; a previous Close() closed them.
	m.stopChan = make(chan struct{})
	m.eventChan = make(chan Event, 10)

	hk := hotkey.New(m.config.Modifiers, m.config.Key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey: %w", err)
	}

	m.hk = hk
	m.running = true

	m.wg.Add(1)
	go m.listen()

	return nil
}

// listen converts raw keydown/keyup events into Pressed/Released events
// according to the recording mode.
func (m *Manager) listen() {
	defer m.wg.Done()

	toggled := false
	for {
		select {
		case <-m.hk.Keydown():
			switch m.config.Mode {
			case PressToHold:
				m.eventChan <- Event{Type: Pressed}
			case Toggle:
				if !toggled {
					m.eventChan <- Event{Type: Pressed}
				} else {
					m.eventChan <- Event{Type: Released}
				}
				toggled = !toggled
			}

		case <-m.hk.Keyup():
			if m.config.Mode == PressToHold {
				m.eventChan <- Event{Type: Released}
			}

		case <-m.stopChan:
			return
		}
	}
}

// Events returns the channel hotkey events are delivered on. The channel
// is closed by Close.
func (m *Manager) Events() <-chan Event {
	return m.eventChan
}

// Close unregisters the hotkey and stops the listener.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	close(m.stopChan)
	m.wg.Wait()

	var unregisterErr error
	if m.hk != nil {
		if err := m.hk.Unregister(); err != nil {
			unregisterErr = fmt.Errorf("unregister hotkey: %w", err)
		}
	}

	if m.eventChan != nil {
		close(m.eventChan)
		m.eventChan = nil
	}

	// Clear running even if Unregister failed so a later Register can
	// retry.
	m.running = false

	return unregisterErr
}

// IsRunning reports whether the hotkey is currently registered.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// GetConfig returns a copy of the current configuration.
func (m *Manager) GetConfig() Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.config
	if m.config.Modifiers != nil {
		cfg.Modifiers = make([]hotkey.Modifier, len(m.config.Modifiers))
		copy(cfg.Modifiers, m.config.Modifiers)
	}
	return cfg
}
