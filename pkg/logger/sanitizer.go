// Package logger keeps secret material out of server logs.
package logger

import "regexp"

// Diagnostic messages routinely embed header values, upstream URLs, and
// connection strings; these patterns strip anything that looks like
// credential material before the message reaches a log line.
var (
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`)
	keyPattern      = regexp.MustCompile(`(?i)(secret|api[_-]?key|apikey|private[_-]?key)[\s:=]+[^\s]+`)
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	dsnPattern      = regexp.MustCompile(`(postgres(?:ql)?://[^:/\s]+):[^@\s]+@`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage redacts tokens, key material, passwords, and
// connection-string credentials from a diagnostic message.
func SanitizeLogMessage(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = keyPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = dsnPattern.ReplaceAllString(message, "${1}:"+redactedPlaceholder+"@")
	return message
}
