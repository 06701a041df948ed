package auth

import "strings"

// BearerToken returns the second whitespace-separated segment of an
// Authorization header value, or "" when there is none. The scheme word is
// not checked.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
