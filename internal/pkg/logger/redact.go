package logger

import "strings"

// RedactIP masks the host portion of an IPv4 address for safe logging.
// "44.12.96.2" → "44.12.***.***". Anything that does not look like an IPv4
// address is fully masked.
func RedactIP(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return "***"
	}
	return parts[0] + "." + parts[1] + ".***.***"
}

// RedactUserAgent keeps only the leading product token of a user agent string.
// "Mozilla/5.0 (Windows NT 6.1; ...)" → "Mozilla/5.0 ***"
func RedactUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if ua == "" {
		return ""
	}
	if idx := strings.IndexByte(ua, ' '); idx > 0 {
		return ua[:idx] + " ***"
	}
	return ua
}
