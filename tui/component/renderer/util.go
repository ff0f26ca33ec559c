package renderer

import (
	"strings"
)

// Truncate cuts s to maxLen runes, adding an ellipsis.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// ShortenURL drops the scheme and www prefix and truncates to 40 runes.
func ShortenURL(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	return Truncate(url, 40)
}

// oneLine collapses whitespace so a preview fits a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
