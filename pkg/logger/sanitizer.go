package logger

import (
	"regexp"
)

// Sensitive field patterns to filter from logs
var (
	tokenPattern  = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s&]+`)
	secretPattern = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s&]+`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes session tokens and secrets from log messages.
// Redirect targets carry the original request URL, which may embed a token
// query parameter, so everything logged by the portal gate goes through here.
func SanitizeLogMessage(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}
