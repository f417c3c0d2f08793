// Package transcription hands finished waveforms to an external
// speech-to-text engine and returns the recognized text.
package transcription

import (
	"context"
	"errors"
)

// ErrTooShort is returned for waveforms under one second: there is
// nothing worth transcribing and the capture should be discarded.
var ErrTooShort = errors.New("waveform too short to transcribe")

// Transcriber converts a mono 16 kHz waveform into text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, language string) (string, error)
}

// PromptTranscriber additionally biases recognition toward expected
// phrases, used by the wake-word loop.
type PromptTranscriber interface {
	Transcriber
	TranscribeWithPrompt(ctx context.Context, samples []float32, language, prompt string) (string, error)
}

// Config holds transcription engine configuration.
type Config struct {
	Command    string // external engine command line, e.g. "whisper-cli"
	ModelPath  string // model file passed to the engine
	SampleRate int    // rate of the waveforms handed over
}

// DefaultConfig returns the default transcription configuration.
func DefaultConfig() Config {
	return Config{
		Command:    "whisper-cli",
		SampleRate: 16000,
	}
}
