package util

import "strings"

// PadCode normalizes an exchange code to its zero-padded six-digit form.
func PadCode(code string) string {
	code = strings.TrimSpace(code)
	// CSV writers sometimes emit codes as floats ("1.0").
	if i := strings.IndexByte(code, '.'); i > 0 && strings.Trim(code[i+1:], "0") == "" {
		code = code[:i]
	}
	if len(code) >= 6 {
		return code
	}
	return strings.Repeat("0", 6-len(code)) + code
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
