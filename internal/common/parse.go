package common

import "strings"

// ToLowerWithTrim normalizes user-provided identifiers (log levels, component
// names) before validation.
func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
