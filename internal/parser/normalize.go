package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize collapses raw extracted text into a single clean string: compatibility
// forms are folded (ligatures, non-breaking spaces), control and format characters
// are dropped, and every whitespace run becomes one space.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := norm.NFKC.String(strings.ToValidUTF8(raw, " "))

	var sb strings.Builder
	sb.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			pendingSpace = sb.Len() > 0
		case unicode.Is(unicode.Cf, r):
			// zero-width and BOM characters
		default:
			if pendingSpace {
				sb.WriteByte(' ')
				pendingSpace = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
