package hotkey

import (
	"testing"
	"time"

	"golang.design/x/hotkey"
)

func TestNew(t *testing.T) {
	m := New()

	config := m.GetConfig()
	if len(config.Modifiers) != 2 {
		t.Errorf("Expected 2 modifiers, got %d", len(config.Modifiers))
	}
	if config.Key != hotkey.KeySpace {
		t.Errorf("Expected KeySpace, got %v", config.Key)
	}
	if config.Mode != Toggle {
		t.Errorf("Expected Toggle mode, got %v", config.Mode)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		want    hotkey.Key
		wantErr bool
	}{
		{"Space", hotkey.KeySpace, false},
		{"space", hotkey.KeySpace, false},
		{" F9 ", hotkey.KeyF9, false},
		{"a", hotkey.KeyA, false},
		{"7", hotkey.Key7, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKey(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKey(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromSettings(t *testing.T) {
	cfg, err := FromSettings(true, false, true, "Space", "press-to-hold")
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}
	if len(cfg.Modifiers) != 2 {
		t.Errorf("Expected 2 modifiers, got %d", len(cfg.Modifiers))
	}
	if cfg.Key != hotkey.KeySpace {
		t.Errorf("Key = %v, want KeySpace", cfg.Key)
	}
	if cfg.Mode != PressToHold {
		t.Errorf("Mode = %v, want PressToHold", cfg.Mode)
	}

	cfg, err = FromSettings(true, false, false, "r", "toggle")
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}
	if cfg.Mode != Toggle {
		t.Errorf("Mode = %v, want Toggle", cfg.Mode)
	}

	if _, err := FromSettings(false, false, false, "Space", "toggle"); err == nil {
		t.Error("expected error when no modifiers are set")
	}
	if _, err := FromSettings(true, false, false, "nope", "toggle"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		ctrl, shift, alt bool
		key              string
		want             string
	}{
		{true, false, true, "Space", "Ctrl+Alt+Space"},
		{true, true, false, "a", "Ctrl+Shift+A"},
		{false, false, true, "F9", "Alt+F9"},
	}
	for _, tt := range tests {
		got := Format(tt.ctrl, tt.shift, tt.alt, tt.key)
		if got != tt.want {
			t.Errorf("Format(%v,%v,%v,%q) = %q, want %q",
				tt.ctrl, tt.shift, tt.alt, tt.key, got, tt.want)
		}
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := New()

	if m.IsRunning() {
		t.Error("Manager should not be running initially")
	}

	// Close should be safe on a non-running manager.
	if err := m.Close(); err != nil {
		t.Errorf("Close() on non-running manager returned error: %v", err)
	}

	// Actual registration needs a display server and may conflict with
	// the environment; covered by integration testing.
}

func TestEventChannel(t *testing.T) {
	m := New()

	eventChan := m.Events()
	if eventChan == nil {
		t.Fatal("Events() returned nil channel")
	}

	select {
	case <-eventChan:
		t.Error("Events channel should be empty initially")
	case <-time.After(10 * time.Millisecond):
	}
}
