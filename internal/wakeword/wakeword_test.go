package wakeword

import (
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"kiri", "", 4},
		{"", "kiri", 4},
		{"kiri", "kiri", 0},
		{"kiri", "kira", 1},
		{"kiri", "keeri", 2},
		{"kitten", "sitting", 3},
		{"hey kiri", "hey siri", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hey, Kiri!", "hey kiri"},
		{"  KIRI.  ", "kiri"},
		{"hey\nkiri", "hey kiri"},
		{"...", ""},
		{"abc 123", "abc 123"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindMatchExact(t *testing.T) {
	phrases := []string{"hey kiri", "kiri"}

	if got := findMatch("Hey Kiri, take a note", phrases, 0.35); got != "hey kiri" {
		t.Errorf("findMatch = %q, want hey kiri", got)
	}
	if got := findMatch("okay kiri", phrases, 0.35); got != "kiri" {
		t.Errorf("findMatch = %q, want kiri", got)
	}
	if got := findMatch("nothing to see here", phrases, 0.35); got != "" {
		t.Errorf("findMatch = %q, want no match", got)
	}
}

func TestFindMatchFuzzy(t *testing.T) {
	phrases := []string{"hey kiri"}

	// "hey siri" is one edit away from "hey kiri", ratio 1/8.
	if got := findMatch("Hey Siri what time is it", phrases, 0.35); got != "hey kiri" {
		t.Errorf("findMatch = %q, want fuzzy match", got)
	}

	// Entirely different words stay unmatched.
	if got := findMatch("good morning everyone", phrases, 0.35); got != "" {
		t.Errorf("findMatch = %q, want no match", got)
	}

	// A zero threshold only allows exact windows.
	if got := findMatch("hey siri", phrases, 0); got != "" {
		t.Errorf("findMatch with zero threshold = %q, want no match", got)
	}
}

func TestFindMatchEmptyInputs(t *testing.T) {
	if got := findMatch("", []string{"kiri"}, 0.35); got != "" {
		t.Errorf("findMatch on empty text = %q", got)
	}
	if got := findMatch("hello", nil, 0.35); got != "" {
		t.Errorf("findMatch with no phrases = %q", got)
	}
	if got := findMatch("hello", []string{"   "}, 0.35); got != "" {
		t.Errorf("findMatch with blank phrase = %q", got)
	}
}

func TestDistanceRatio(t *testing.T) {
	if got := distanceRatio("", ""); got != 0 {
		t.Errorf("distanceRatio of empty strings = %g, want 0", got)
	}
	if got := distanceRatio("kiri", "kiri"); got != 0 {
		t.Errorf("distanceRatio of equal strings = %g, want 0", got)
	}
	if got := distanceRatio("kiri", "kira"); got != 0.25 {
		t.Errorf("distanceRatio(kiri, kira) = %g, want 0.25", got)
	}
}

func TestRMS(t *testing.T) {
	if got := rms(nil); got != 0 {
		t.Errorf("rms(nil) = %g, want 0", got)
	}
	if got := rms([]float32{0.5, -0.5, 0.5, -0.5}); got != 0.5 {
		t.Errorf("rms = %g, want 0.5", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.Phrases) == 0 {
		t.Error("default config needs at least one phrase")
	}
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold >= 1 {
		t.Errorf("MatchThreshold = %g, want in (0, 1)", cfg.MatchThreshold)
	}
	if cfg.Stride <= 0 || cfg.Cooldown <= 0 {
		t.Error("stride and cooldown must be positive")
	}
}

func TestNewDetectorBackfillsPhrases(t *testing.T) {
	d := NewDetector(Config{}, nil, nil)
	if len(d.cfg.Phrases) == 0 {
		t.Error("empty phrase list should fall back to defaults")
	}
}
