// Package wakeword listens on the microphone for spoken wake phrases.
//
// The detector keeps a rolling capture open, periodically transcribes
// the buffered audio and fuzzy-matches the transcript against the
// configured phrases. Transcription makes this far heavier than a
// keyword-spotting model, but it reuses the same engine the rest of
// the application already ships.
package wakeword

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/kirivoice/kiri/internal/audio"
	"github.com/kirivoice/kiri/internal/transcription"
)

// Config holds wake word detection parameters.
type Config struct {
	Phrases        []string
	Stride         time.Duration // how often the buffer is scanned
	MinAudio       time.Duration // minimum buffered audio before a scan
	VADThreshold   float64       // normalized RMS below which audio is skipped
	MatchThreshold float64       // max edit-distance ratio for a fuzzy match
	Cooldown       time.Duration // suppress repeat triggers
	Language       string
}

// DefaultConfig returns the default wake word configuration.
func DefaultConfig() Config {
	return Config{
		Phrases:        []string{"hey kiri", "kiri"},
		Stride:         1500 * time.Millisecond,
		MinAudio:       800 * time.Millisecond,
		VADThreshold:   0.02,
		MatchThreshold: 0.35,
		Cooldown:       5 * time.Second,
		Language:       "en",
	}
}

// Detector scans a live audio stream for wake phrases.
type Detector struct {
	cfg      Config
	recorder *audio.Recorder
	tr       transcription.Transcriber
	lastWake time.Time
}

// NewDetector creates a detector reading from recorder and transcribing
// with tr.
func NewDetector(cfg Config, recorder *audio.Recorder, tr transcription.Transcriber) *Detector {
	if len(cfg.Phrases) == 0 {
		cfg.Phrases = DefaultConfig().Phrases
	}
	return &Detector{cfg: cfg, recorder: recorder, tr: tr}
}

// Listen opens a stream and scans it until ctx is cancelled. onWake is
// called with the matched phrase.
func (d *Detector) Listen(ctx context.Context, onWake func(phrase string)) error {
	stream, err := d.recorder.OpenStream()
	if err != nil {
		return err
	}
	defer stream.Close()

	ticker := time.NewTicker(d.cfg.Stride)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if phrase := d.scan(ctx, stream); phrase != "" {
				onWake(phrase)
			}
		}
	}
}

// scan transcribes the buffered audio and returns the matched phrase,
// or "" when nothing matched.
func (d *Detector) scan(ctx context.Context, stream *audio.Stream) string {
	samples := stream.Snapshot()
	minSamples := int(d.cfg.MinAudio.Seconds() * float64(audio.RecordRate))
	if len(samples) < minSamples {
		return ""
	}

	// Drop silent windows before paying for a transcription pass.
	if rms(samples) < d.cfg.VADThreshold {
		stream.Clear()
		return ""
	}

	resampled, err := audio.Resample(samples, audio.RecordRate, audio.WhisperRate)
	if err != nil {
		return ""
	}

	text, err := d.transcribe(ctx, resampled)
	if err != nil {
		if !errors.Is(err, transcription.ErrTooShort) {
			stream.Clear()
		}
		return ""
	}
	// The window is consumed either way; unbounded growth would make
	// every later scan slower.
	stream.Clear()

	phrase := findMatch(text, d.cfg.Phrases, d.cfg.MatchThreshold)
	if phrase == "" {
		return ""
	}

	now := time.Now()
	if now.Sub(d.lastWake) < d.cfg.Cooldown {
		return ""
	}
	d.lastWake = now
	return phrase
}

// transcribe biases recognition toward the wake phrases when the
// engine supports prompting.
func (d *Detector) transcribe(ctx context.Context, samples []float32) (string, error) {
	if pt, ok := d.tr.(transcription.PromptTranscriber); ok {
		prompt := strings.Join(d.cfg.Phrases, ", ")
		return pt.TranscribeWithPrompt(ctx, samples, d.cfg.Language, prompt)
	}
	return d.tr.Transcribe(ctx, samples, d.cfg.Language)
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// normalize lowercases text and strips everything but letters, digits
// and spaces.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// findMatch returns the first phrase found in text, either as an exact
// substring or within threshold edit-distance ratio of a word window.
func findMatch(text string, phrases []string, threshold float64) string {
	normText := normalize(text)
	if normText == "" {
		return ""
	}

	for _, phrase := range phrases {
		normPhrase := normalize(phrase)
		if normPhrase == "" {
			continue
		}
		if strings.Contains(normText, normPhrase) {
			return phrase
		}

		// Slide a window of as many words as the phrase has over the
		// transcript and fuzzy-compare each window.
		phraseWords := strings.Fields(normPhrase)
		textWords := strings.Fields(normText)
		for i := 0; i+len(phraseWords) <= len(textWords); i++ {
			window := strings.Join(textWords[i:i+len(phraseWords)], " ")
			if distanceRatio(window, normPhrase) <= threshold {
				return phrase
			}
		}
	}
	return ""
}

// distanceRatio is the Levenshtein distance divided by the longer
// string's length, 0 for identical strings.
func distanceRatio(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein(a, b)) / float64(longest)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
