// Package audio implements the capture pipeline: device selection,
// recording, endpoint detection, and resampling to the rate the
// transcription engine expects.
package audio

import "time"

const (
	// RecordRate is the native capture rate the microphone is opened at.
	RecordRate = 48000
	// WhisperRate is the sample rate the transcription engine expects.
	WhisperRate = 16000
)

// Config holds capture configuration.
type Config struct {
	DeviceName      string // substring matched against device names; empty = system default
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	MaxDuration     time.Duration // hard recording cap
	Detector        DetectorConfig
}

// DefaultConfig returns the default capture configuration:
// 48 kHz mono int16 capture, resampled to 16 kHz on finalize.
func DefaultConfig() Config {
	return Config{
		SampleRate:      RecordRate,
		Channels:        1,
		FramesPerBuffer: 1024,
		MaxDuration:     120 * time.Second,
		Detector:        DefaultDetectorConfig(),
	}
}
