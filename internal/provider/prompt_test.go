package provider

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateDiff(t *testing.T) {
	tests := []struct {
		name      string
		diff      string
		max       int
		truncated bool
	}{
		{"under cap", "short diff", 100, false},
		{"exactly at cap", "1234567890", 10, false},
		{"over cap", strings.Repeat("x", 50), 10, true},
		{"cap disabled", strings.Repeat("x", 50), 0, false},
		{"negative cap disabled", "diff", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDiff(tt.diff, tt.max)
			if tt.truncated {
				if !strings.HasSuffix(got, TruncationMarker) {
					t.Errorf("TruncateDiff() = %q, want truncation marker suffix", got)
				}
				if len(got) != tt.max+len(TruncationMarker) {
					t.Errorf("TruncateDiff() kept %d chars, want %d", len(got)-len(TruncationMarker), tt.max)
				}
			} else if got != tt.diff {
				t.Errorf("TruncateDiff() = %q, want unchanged input", got)
			}
		})
	}
}

func TestTruncateDiffRuneBoundary(t *testing.T) {
	// Cap lands mid-rune: "héllo" is h(1) é(2) l l o, a cap of 2 splits é.
	diff := "héllo" + strings.Repeat("x", 20)

	for max := 1; max < len(diff); max++ {
		got := TruncateDiff(diff, max)
		if !utf8.ValidString(got) {
			t.Errorf("TruncateDiff(max=%d) = %q, not valid UTF-8", max, got)
		}
		if len(got) > max+len(TruncationMarker) {
			t.Errorf("TruncateDiff(max=%d) kept %d bytes over the cap", max, len(got)-len(TruncationMarker))
		}
	}
}

func TestSystemPromptStyles(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		contains string
		excludes string
	}{
		{
			name:     "simple",
			opts:     Options{Style: "simple", MaxLength: 72},
			contains: "imperative mood",
		},
		{
			name:     "conventional",
			opts:     Options{Style: "conventional", MaxLength: 72},
			contains: "Conventional Commits",
		},
		{
			name:     "emoji style",
			opts:     Options{Style: "emoji", MaxLength: 72},
			contains: "gitmoji",
		},
		{
			name:     "custom replaces style rules",
			opts:     Options{Style: "conventional", MaxLength: 72, CustomInstructions: "Write in French."},
			contains: "Write in French.",
			excludes: "Conventional Commits",
		},
		{
			name:     "emoji flag on simple",
			opts:     Options{Style: "simple", MaxLength: 72, Emoji: true},
			contains: "one fitting emoji",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SystemPrompt(tt.opts)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("SystemPrompt() missing %q:\n%s", tt.contains, got)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("SystemPrompt() should not contain %q:\n%s", tt.excludes, got)
			}
		})
	}
}

func TestSystemPromptIncludesLength(t *testing.T) {
	got := SystemPrompt(Options{Style: "simple", MaxLength: 50})
	if !strings.Contains(got, "50") {
		t.Errorf("SystemPrompt() should name the length limit:\n%s", got)
	}
}
