package httpx

import "regexp"

// Credential-bearing fragments must never leave the process, in any error
// kind. Patterns cover key=value secrets and connection-string userinfo.
var (
	keyValueSecret = regexp.MustCompile(`(?i)\b(password|token|secret)=\S+`)
	urlCredentials = regexp.MustCompile(`\b([a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`)
)

// Sanitize redacts credential fragments from a message before it is emitted
// in a response body or log line.
func Sanitize(msg string) string {
	msg = keyValueSecret.ReplaceAllString(msg, "$1=***")
	msg = urlCredentials.ReplaceAllString(msg, "$1***@")
	return msg
}
