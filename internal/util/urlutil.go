package util

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL parses a user-supplied media URL, adding an https scheme when
// it was omitted (e.g. "youtu.be/abc"). Only http and https are accepted.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u == nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q in %q", u.Scheme, raw)
	}
	return u.String(), nil
}

// IsPlaylistURL reports whether the URL points at a playlist rather than a
// single video.
func IsPlaylistURL(raw string) bool {
	return strings.Contains(raw, "list=") || strings.Contains(raw, "playlist?")
}
