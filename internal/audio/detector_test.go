package audio

import (
	"testing"
	"time"
)

// base is an arbitrary monotonic reference point for detector tests.
var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return base.Add(time.Duration(seconds * float64(time.Second)))
}

func TestDetectorNoSpeechNeverStops(t *testing.T) {
	d := NewEndpointDetector(DefaultDetectorConfig())

	// Quiet blocks well past any duration cap: the detector alone must
	// never raise the stop flag without prior speech.
	for s := 0.0; s < 200; s += 0.1 {
		if d.Observe(0.001, at(s)) {
			t.Fatalf("detector stopped at t=%.1fs without any speech", s)
		}
	}
	if d.State() != StateAwaitingSpeech {
		t.Errorf("expected AwaitingSpeech, got %v", d.State())
	}
}

func TestDetectorGuardWindow(t *testing.T) {
	d := NewEndpointDetector(DefaultDetectorConfig())

	if d.Observe(0.1, at(0)) {
		t.Fatal("stopped on speech onset")
	}
	if d.State() != StateInSpeech {
		t.Fatalf("expected InSpeech after loud block, got %v", d.State())
	}

	// Quiet at t=0.2s is inside the 0.5s guard: ignored, no silence timer.
	if d.Observe(0.001, at(0.2)) {
		t.Fatal("stopped inside guard window")
	}
	if d.State() != StateInSpeechMinGuard {
		t.Fatalf("expected InSpeechMinGuard, got %v", d.State())
	}

	// Quiet at t=0.6s is past the guard: the silence timer starts here.
	if d.Observe(0.001, at(0.6)) {
		t.Fatal("stopped as soon as the silence timer started")
	}
	if d.State() != StateTrailingSilence {
		t.Fatalf("expected TrailingSilence, got %v", d.State())
	}
}

func TestDetectorStopTrigger(t *testing.T) {
	d := NewEndpointDetector(DefaultDetectorConfig())

	d.Observe(0.1, at(0))
	d.Observe(0.001, at(0.6)) // silence timer starts

	// 2.5s of silence accumulates at t=3.1s, not earlier.
	if d.Observe(0.001, at(3.0)) {
		t.Error("stopped before SilenceDuration elapsed")
	}
	if !d.Observe(0.001, at(3.1)) {
		t.Error("did not stop once SilenceDuration elapsed")
	}
}

func TestDetectorSpeechResetsSilence(t *testing.T) {
	d := NewEndpointDetector(DefaultDetectorConfig())

	d.Observe(0.1, at(0))
	d.Observe(0.001, at(0.6)) // silence timer starts
	d.Observe(0.1, at(2.0))   // speech resumes, timer cleared
	if d.State() != StateInSpeech {
		t.Fatalf("expected InSpeech after speech resumed, got %v", d.State())
	}

	// Old silence no longer counts: a fresh 2.5s is needed.
	d.Observe(0.001, at(2.5))
	if d.Observe(0.001, at(3.2)) {
		t.Error("stopped using a stale silence timer")
	}
	if !d.Observe(0.001, at(5.0)) {
		t.Error("did not stop after a fresh SilenceDuration of silence")
	}
}

func TestDetectorCustomThresholds(t *testing.T) {
	cfg := DetectorConfig{
		SilenceThreshold:  0.5,
		SpeechMinDuration: time.Second,
		SilenceDuration:   time.Second,
	}
	d := NewEndpointDetector(cfg)

	d.Observe(0.6, at(0))
	// 0.4 is quiet under the raised threshold, and t=0.5 is inside the
	// 1s guard.
	d.Observe(0.4, at(0.5))
	if d.State() != StateInSpeechMinGuard {
		t.Fatalf("expected InSpeechMinGuard, got %v", d.State())
	}
	d.Observe(0.4, at(1.5))
	if !d.Observe(0.4, at(2.5)) {
		t.Error("custom SilenceDuration not honored")
	}
}

func TestDetectorStateString(t *testing.T) {
	tests := []struct {
		state DetectorState
		want  string
	}{
		{StateAwaitingSpeech, "AwaitingSpeech"},
		{StateInSpeech, "InSpeech"},
		{StateInSpeechMinGuard, "InSpeechMinGuard"},
		{StateTrailingSilence, "TrailingSilence"},
		{DetectorState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
