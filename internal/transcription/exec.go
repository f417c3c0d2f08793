package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mattn/go-shellwords"
)

// ExecTranscriber shells out to an external speech-to-text command. The
// waveform is written to a temporary WAV file; the command receives
// --audio, --model, --language (and optionally --prompt) flags and must
// print {"text": "..."} on stdout.
type ExecTranscriber struct {
	cmd []string
	cfg Config
	mu  sync.Mutex
}

type execResult struct {
	Text string `json:"text"`
}

// NewExecTranscriber parses the configured command line and returns the
// transcriber. The command is not checked for existence here; a missing
// binary surfaces on the first Transcribe call.
func NewExecTranscriber(cfg Config) (*ExecTranscriber, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse transcriber command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("transcriber command is empty")
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return &ExecTranscriber{cmd: args, cfg: cfg}, nil
}

// Transcribe runs the engine on a finished waveform.
func (t *ExecTranscriber) Transcribe(ctx context.Context, samples []float32, language string) (string, error) {
	return t.TranscribeWithPrompt(ctx, samples, language, "")
}

// TranscribeWithPrompt runs the engine with an initial prompt biasing
// recognition toward expected phrases.
func (t *ExecTranscriber) TranscribeWithPrompt(ctx context.Context, samples []float32, language, prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(samples) < t.cfg.SampleRate {
		return "", ErrTooShort
	}

	file, err := os.CreateTemp("", "kiri_stt_*.wav")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := writeWav(file, samples, t.cfg.SampleRate); err != nil {
		return "", err
	}

	args := append([]string{}, t.cmd[1:]...)
	args = append(args, "--audio", file.Name())
	if t.cfg.ModelPath != "" {
		args = append(args, "--model", t.cfg.ModelPath)
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}

	command := exec.CommandContext(ctx, t.cmd[0], args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return "", fmt.Errorf("transcriber command failed: %w: %s", err, stderr.String())
	}

	var resp execResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", fmt.Errorf("decode transcriber response: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// writeWav encodes the waveform as 16-bit mono PCM.
func writeWav(file *os.File, samples []float32, sampleRate int) error {
	buffer := &gaudio.IntBuffer{
		Format: &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   make([]int, len(samples)),
	}
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		buffer.Data[i] = int(v * 32767)
	}

	enc := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
