package platform

import (
	"net/url"
	"strings"
)

// LoginGatedHosts lists hosts that only serve full media to a logged-in
// browser session. Anonymous requests get trailers or previews.
var LoginGatedHosts = []string{
	"agasobanuyefilms.com",
}

// Hostname extracts the lower-cased host of a media URL, tolerating a
// missing scheme. Returns "" when nothing usable is found.
func Hostname(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsLoginGated reports whether the URL points at a host from LoginGatedHosts,
// including its subdomains.
func IsLoginGated(raw string) bool {
	host := Hostname(raw)
	if host == "" {
		// Unparseable input still counts when the domain appears verbatim.
		lower := strings.ToLower(raw)
		for _, h := range LoginGatedHosts {
			if strings.Contains(lower, h) {
				return true
			}
		}
		return false
	}
	for _, h := range LoginGatedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
