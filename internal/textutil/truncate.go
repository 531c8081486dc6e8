package textutil

import "unicode/utf8"

// Truncate cuts s to at most max bytes without splitting a multibyte rune:
// when the byte limit lands inside a rune, the cut backs up to the rune's
// start so the result is always valid UTF-8.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}

// TruncateWithEllipsis truncates like Truncate and marks cut strings with
// an ellipsis. Strings within the limit come back unchanged.
func TruncateWithEllipsis(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return Truncate(s, max) + "..."
}
