package audio

import "time"

// DetectorConfig holds endpoint-detection thresholds.
type DetectorConfig struct {
	SilenceThreshold  float64       // normalized RMS below this counts as silence
	SpeechMinDuration time.Duration // quiet blocks this soon after speech onset are ignored
	SilenceDuration   time.Duration // trailing silence needed to stop
}

// DefaultDetectorConfig returns the default endpoint-detection thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SilenceThreshold:  0.008,
		SpeechMinDuration: 500 * time.Millisecond,
		SilenceDuration:   2500 * time.Millisecond,
	}
}

// DetectorState is the current state of the endpoint detector.
type DetectorState int

const (
	// StateAwaitingSpeech means no speech has been observed yet.
	StateAwaitingSpeech DetectorState = iota
	// StateInSpeech means speech is ongoing.
	StateInSpeech
	// StateInSpeechMinGuard means a quiet block arrived inside the
	// minimum-speech window and was ignored.
	StateInSpeechMinGuard
	// StateTrailingSilence means silence is accumulating after speech.
	StateTrailingSilence
)

// String returns the string representation of the state.
func (s DetectorState) String() string {
	switch s {
	case StateAwaitingSpeech:
		return "AwaitingSpeech"
	case StateInSpeech:
		return "InSpeech"
	case StateInSpeechMinGuard:
		return "InSpeechMinGuard"
	case StateTrailingSilence:
		return "TrailingSilence"
	default:
		return "Unknown"
	}
}

// EndpointDetector decides, from streaming per-block energy readings, when
// speech has ended. It tolerates brief pauses right after speech onset and
// stops once enough genuine trailing silence has accumulated.
type EndpointDetector struct {
	cfg          DetectorConfig
	state        DetectorState
	speechStart  time.Time
	silenceStart time.Time
}

// NewEndpointDetector creates a detector in the awaiting-speech state.
func NewEndpointDetector(cfg DetectorConfig) *EndpointDetector {
	return &EndpointDetector{cfg: cfg, state: StateAwaitingSpeech}
}

// State returns the detector's current state.
func (d *EndpointDetector) State() DetectorState {
	return d.state
}

// Observe feeds one block's normalized RMS level at monotonic time now.
// It returns true once the endpoint has been reached; the caller raises
// the session's stop flag on the first true.
func (d *EndpointDetector) Observe(level float64, now time.Time) bool {
	if level > d.cfg.SilenceThreshold {
		d.silenceStart = time.Time{}
		if d.state == StateAwaitingSpeech {
			d.speechStart = now
		}
		d.state = StateInSpeech
		return false
	}

	switch d.state {
	case StateAwaitingSpeech:
		// Quiet before any speech: keep waiting.
		return false
	case StateInSpeech, StateInSpeechMinGuard:
		if now.Sub(d.speechStart) < d.cfg.SpeechMinDuration {
			// Inside the guard window a quiet block is ignored outright:
			// no silence timer starts and none is restarted.
			d.state = StateInSpeechMinGuard
			return false
		}
		d.state = StateTrailingSilence
		d.silenceStart = now
		return false
	case StateTrailingSilence:
		return now.Sub(d.silenceStart) >= d.cfg.SilenceDuration
	}
	return false
}
