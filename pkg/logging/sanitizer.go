// Package logging sanitizes values before they reach log output. Connection
// strings and driver errors can carry the database credential; suspect
// parameter values can be arbitrarily long attacker input.
package logging

import (
	"regexp"
)

const (
	// MaxValueLogLength caps logged parameter values
	MaxValueLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection string so
// it can be logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError strips credential material from an error message. Driver
// errors embed the connection string on connect failures.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// TruncateValue caps a raw parameter value for logging. Flagged injection
// payloads are logged for diagnosis but never in full.
func TruncateValue(s string) string {
	if len(s) <= MaxValueLogLength {
		return s
	}
	return s[:MaxValueLogLength] + "..."
}
