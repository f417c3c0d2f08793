package notification

import (
	"strings"
	"testing"
)

// fakeManager records notify-send invocations instead of executing them.
func fakeManager(t *testing.T) (*Manager, *[][]string) {
	t.Helper()
	var calls [][]string
	m := NewManager("kiri")
	m.run = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	return m, &calls
}

func TestSend(t *testing.T) {
	m, calls := fakeManager(t)

	err := m.Send(&Notification{Title: "Hello", Message: "world", Urgency: UrgencyLow})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(*calls))
	}
	got := (*calls)[0]
	if got[0] != "notify-send" {
		t.Errorf("command = %q, want notify-send", got[0])
	}
	joined := strings.Join(got, " ")
	if !strings.Contains(joined, "--urgency low") {
		t.Errorf("missing urgency flag in %q", joined)
	}
	if !strings.Contains(joined, "Hello") || !strings.Contains(joined, "world") {
		t.Errorf("missing title or message in %q", joined)
	}
}

func TestSendNil(t *testing.T) {
	m, _ := fakeManager(t)
	if err := m.Send(nil); err == nil {
		t.Error("expected error for nil notification")
	}
}

func TestSendDefaults(t *testing.T) {
	m, calls := fakeManager(t)

	if err := m.Info("plain message"); err != nil {
		t.Fatalf("Info: %v", err)
	}

	joined := strings.Join((*calls)[0], " ")
	if !strings.Contains(joined, "--urgency normal") {
		t.Errorf("Info should default to normal urgency: %q", joined)
	}
	if !strings.Contains(joined, "--app-name kiri") {
		t.Errorf("missing app name: %q", joined)
	}
	// Title falls back to the app name.
	if !strings.Contains(joined, " kiri plain message") {
		t.Errorf("title should default to app name: %q", joined)
	}
}

func TestErrorUrgency(t *testing.T) {
	m, calls := fakeManager(t)

	if err := m.TranscriptionFailed("model missing"); err != nil {
		t.Fatalf("TranscriptionFailed: %v", err)
	}

	joined := strings.Join((*calls)[0], " ")
	if !strings.Contains(joined, "--urgency critical") {
		t.Errorf("failures should be critical: %q", joined)
	}
	if !strings.Contains(joined, "Transcription failed: model missing") {
		t.Errorf("unexpected message: %q", joined)
	}
}

func TestTranscriptionCompleteTruncates(t *testing.T) {
	m, calls := fakeManager(t)

	long := strings.Repeat("a", 200)
	if err := m.TranscriptionComplete(long); err != nil {
		t.Fatalf("TranscriptionComplete: %v", err)
	}

	joined := strings.Join((*calls)[0], " ")
	if strings.Contains(joined, long) {
		t.Error("long transcript should be truncated")
	}
	if !strings.Contains(joined, "...") {
		t.Errorf("truncated preview should end in ellipsis: %q", joined)
	}
}
