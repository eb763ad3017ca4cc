package web

// sanitize.go scrubs error messages before they leave the server, so
// internals like file paths, hostnames and credential fragments never
// reach a browser.

import (
	"regexp"
	"strings"
)

// maxErrorLength caps client-visible error messages.
const maxErrorLength = 200

// sensitivePatterns match message fragments that may leak internals.
var sensitivePatterns = []*regexp.Regexp{
	// Credential-ish words
	regexp.MustCompile(`(?i)password|passwd|pwd|secret|token|api[_-]?key|private[_-]?key|auth`),
	// Windows and Unix file paths
	regexp.MustCompile(`(?i)[a-z]:[\\/][^\s]*`),
	regexp.MustCompile(`(?i)/(?:home|usr|var|etc|root)[\\/][^\s]*`),
	// Local addresses
	regexp.MustCompile(`(?i)localhost|127\.0\.0\.1|0\.0\.0\.0|::1`),
	// Database connection strings
	regexp.MustCompile(`(?i)mongodb|mysql|postgres|redis|sqlite[:+]`),
	regexp.MustCompile(`(?i)aws_access_key_id|aws_secret_access_key`),
}

// SanitizeErrorMessage returns a version of message safe to show to
// users: sensitive fragments are redacted and the result is length
// capped. Never returns an empty string.
func SanitizeErrorMessage(message string) string {
	if message == "" {
		return "An error occurred"
	}

	sanitized := message
	for _, pattern := range sensitivePatterns {
		sanitized = pattern.ReplaceAllString(sanitized, "[REDACTED]")
	}

	if len(sanitized) > maxErrorLength {
		sanitized = sanitized[:maxErrorLength] + "..."
	}

	if strings.TrimSpace(sanitized) == "" {
		return "An error occurred while processing your request"
	}
	return sanitized
}
