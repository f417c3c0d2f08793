package transcription

import "context"

// MockTranscriber returns a fixed text; used in tests and dry runs.
type MockTranscriber struct {
	Text string
}

// Transcribe returns the fixed text.
func (m *MockTranscriber) Transcribe(_ context.Context, samples []float32, _ string) (string, error) {
	if len(samples) == 0 {
		return "", ErrTooShort
	}
	return m.Text, nil
}

// TranscribeWithPrompt returns the fixed text, ignoring the prompt.
func (m *MockTranscriber) TranscribeWithPrompt(ctx context.Context, samples []float32, language, _ string) (string, error) {
	return m.Transcribe(ctx, samples, language)
}
