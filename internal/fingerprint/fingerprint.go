// Package fingerprint computes the issue-grouping key for error events.
// The same (message, stacktrace) pair always yields the same key, and
// runtime noise embedded in the message (ids, timestamps, hex addresses)
// is collapsed before hashing so that semantically identical errors land
// in the same issue.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const maxStackLines = 3

// callSiteMarker precedes the function identity in a stack line, e.g.
// "at foo.bar (file.js:10)". Everything from the marker up to the
// " (file:line)" suffix survives; the suffix varies across builds and is
// dropped.
const callSiteMarker = "at "

// Compute returns the lowercase hex SHA-256 grouping key for an error.
// It is pure: no I/O, deterministic for all inputs.
func Compute(message, stacktrace string) string {
	h := sha256.New()
	h.Write([]byte(normalizeMessage(message)))
	h.Write([]byte(extractStack(stacktrace)))
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeMessage replaces every decimal digit with '0' and every
// remaining hex-looking letter with 'X', so "user 42 not found" and
// "user 99 not found" normalize identically.
func normalizeMessage(message string) string {
	var b strings.Builder
	b.Grow(len(message))
	for _, r := range message {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune('0')
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
			b.WriteRune('X')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractStack keeps at most the first three stack lines. Lines carrying
// a call-site marker are trimmed to the call identity; lines without one
// are used verbatim. A marker-less stack may over-fragment issues, which
// is a documented limitation of the cheap hash.
func extractStack(stacktrace string) string {
	if stacktrace == "" {
		return ""
	}
	lines := strings.Split(stacktrace, "\n")
	if len(lines) > maxStackLines {
		lines = lines[:maxStackLines]
	}

	var b strings.Builder
	for _, line := range lines {
		fragment := line
		if idx := strings.Index(line, callSiteMarker); idx >= 0 {
			rest := line[idx:]
			if end := strings.Index(rest, " ("); end >= 0 {
				fragment = rest[:end]
			}
		}
		b.WriteString(fragment)
		b.WriteByte('\n')
	}
	return b.String()
}
