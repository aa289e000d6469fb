// Package validation holds field rules shared by services and seeders.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDisplayNameLen bounds profile display names, in runes.
const MaxDisplayNameLen = 120

var ratioRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*:\s*(\d+(?:\.\d+)?)$`)

// ValidateRatio checks a coffee:water brew ratio such as "1:16" or "1:2.5".
func ValidateRatio(ratio string) error {
	m := ratioRegex.FindStringSubmatch(strings.TrimSpace(ratio))
	if m == nil {
		return fmt.Errorf("ratio must look like 1:16")
	}
	for _, part := range m[1:] {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("ratio parts must be positive")
		}
	}
	return nil
}

// ValidateDisplayName checks a trimmed display name.
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("display_name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return fmt.Errorf("display_name too long (max %d characters)", MaxDisplayNameLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("display_name cannot contain control characters")
		}
	}
	return nil
}
