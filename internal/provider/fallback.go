package provider

import "time"

// FallbackTimeFormat is the timestamp layout of the non-AI fallback message.
const FallbackTimeFormat = "2006-01-02 15:04:05"

// FallbackMessage is the deterministic commit message used when AI
// generation is unavailable or exhausted.
func FallbackMessage(now time.Time) string {
	return "Auto-commit " + now.Format(FallbackTimeFormat)
}
