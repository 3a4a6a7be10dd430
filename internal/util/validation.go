package util

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// NormalizeUsername trims and lowercases so lookups are case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// OptionalString returns nil for blank input.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
