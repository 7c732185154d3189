// Package authorize decides whether a recognized plate belongs to the
// authorized set.
package authorize

import "strings"

// Normalize reduces raw recognized text to the canonical plate form:
// uppercase with everything outside [A-Z0-9] removed.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToUpper(text) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Matcher checks plates against a fixed, ordered authorized set.
// The set is read-only after construction, so a Matcher is safe to share
// across all frames of a run.
type Matcher struct {
	plates []string
}

// NewMatcher creates a Matcher from the given reference plates.
// Plates are normalized and kept in insertion order; entries that normalize
// to the empty string are dropped.
func NewMatcher(plates []string) *Matcher {
	m := &Matcher{plates: make([]string, 0, len(plates))}
	for _, p := range plates {
		if n := Normalize(p); n != "" {
			m.plates = append(m.plates, n)
		}
	}
	return m
}

// Plates returns the normalized authorized set in insertion order.
func (m *Matcher) Plates() []string {
	out := make([]string, len(m.plates))
	copy(out, m.plates)
	return out
}

// IsAuthorized reports whether the plate text matches any authorized entry.
//
// The policy is deliberately lenient to absorb OCR noise: after
// normalization, a match is declared when either string is a substring of
// the other. This handles a truncated read of a reference plate as well as
// a noisy read that embeds one. Empty text never matches. Entries are
// checked in insertion order and the first match wins.
func (m *Matcher) IsAuthorized(plateText string) bool {
	clean := Normalize(plateText)
	if clean == "" {
		return false
	}

	for _, auth := range m.plates {
		if strings.Contains(clean, auth) || strings.Contains(auth, clean) {
			return true
		}
	}
	return false
}
