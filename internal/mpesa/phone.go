package mpesa

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a locally formatted Kenyan mobile number to the
// international form the STK push API expects. A leading "0" is replaced
// with "254"; numbers already starting with "254" pass through unchanged.
// Spaces and dashes are stripped before matching.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return -1
		}
		return r
	}, raw)

	switch {
	case cleaned == "":
		return "", fmt.Errorf("empty phone number")
	case strings.HasPrefix(cleaned, "0"):
		cleaned = "254" + cleaned[1:]
	case strings.HasPrefix(cleaned, "254"):
		// already international
	default:
		return "", fmt.Errorf("unsupported phone number format: %q", raw)
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number contains non-digit characters: %q", raw)
		}
	}

	return cleaned, nil
}
