package provider

import "strings"

// Normalize reduces raw provider output to a single physical line.
//
// Markdown code fences are removed, wrapping backticks and quotes are
// stripped, and whitespace runs collapse to single spaces. The function is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	s = stripCodeFences(s)
	s = strings.TrimSpace(s)

	// Strip wrapping quote pairs. Looping keeps the result stable even for
	// output wrapped more than once.
	for {
		stripped := stripWrappingPair(s)
		if stripped == s {
			break
		}
		s = strings.TrimSpace(stripped)
	}

	// Collapse all whitespace runs (including newlines) to single spaces.
	return strings.Join(strings.Fields(s), " ")
}

func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}

	lines := strings.Split(trimmed, "\n")
	var kept []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func stripWrappingPair(s string) string {
	if len(s) < 2 {
		return s
	}
	for _, q := range []byte{'`', '"', '\''} {
		if s[0] == q && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
