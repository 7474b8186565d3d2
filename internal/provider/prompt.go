package provider

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended when a diff exceeds the configured cap.
const TruncationMarker = "\n[diff truncated]"

// TruncateDiff caps the diff at max bytes, appending the marker when
// anything was cut. The cut backs off to a rune boundary so the result
// stays valid UTF-8. max <= 0 disables truncation.
func TruncateDiff(diff string, max int) string {
	if max <= 0 || len(diff) <= max {
		return diff
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(diff[cut]) {
		cut--
	}
	return diff[:cut] + TruncationMarker
}

// SystemPrompt builds the instruction block for a generation.
// Custom instructions fully replace the structural style rules.
func SystemPrompt(opts Options) string {
	var b strings.Builder

	b.WriteString("You are generating a git commit message for the staged diff below.\n")
	fmt.Fprintf(&b, "Respond with exactly one line of at most %d characters. ", opts.MaxLength)
	b.WriteString("No explanation, no markdown, no quotes.\n")

	if opts.CustomInstructions != "" {
		b.WriteString(opts.CustomInstructions)
		return b.String()
	}

	switch opts.Style {
	case "conventional":
		b.WriteString("Use Conventional Commits format: type(scope): description. ")
		b.WriteString("Choose the type from feat, fix, docs, style, refactor, test, chore.")
	case "emoji":
		b.WriteString("Start the message with a single fitting gitmoji, then a concise summary.")
	default:
		b.WriteString("Write a concise summary of the change in the imperative mood.")
	}

	if opts.Emoji && opts.Style != "emoji" {
		b.WriteString(" Include one fitting emoji.")
	}

	return b.String()
}

// UserPrompt wraps the (already truncated) diff for the provider call.
func UserPrompt(diff string) string {
	return "Staged diff:\n\n" + diff
}
