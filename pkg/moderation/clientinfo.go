package moderation

import "regexp"

// maxUserAgentLength bounds the user-agent value carried into the
// field bag; anything longer is cut off, never rejected.
const maxUserAgentLength = 254

var ipCharFilter = regexp.MustCompile(`[^0-9a-fA-F:., ]`)

// SanitizeClientIP strips every character that cannot appear in an
// IPv4 address, an IPv6 address or a comma-separated proxy chain. The
// result is not validated; this is purely a character whitelist.
func SanitizeClientIP(raw string) string {
	return ipCharFilter.ReplaceAllString(raw, "")
}

// SanitizeUserAgent truncates the raw header value to
// maxUserAgentLength characters. An absent header stays empty.
func SanitizeUserAgent(raw string) string {
	if len(raw) > maxUserAgentLength {
		return raw[:maxUserAgentLength]
	}
	return raw
}
