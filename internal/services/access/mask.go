package access

import "strings"

// MaskKey hides the middle of a key for display: "EF-26Q1-A9F4KZ2M" becomes "EF-26Q1-****KZ2M".
func MaskKey(key string) string {
	if len(key) >= 12 {
		return key[:8] + "****" + key[len(key)-4:]
	}
	if len(key) > 6 {
		return key[:6] + "****"
	}
	return key + "****"
}

// Normalize trims surrounding whitespace and upper-cases a submitted key.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
