// internal/util/util.go
package util

import "unicode/utf8"

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated. Used to keep generated-text
// previews in logs to a single readable line.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}
