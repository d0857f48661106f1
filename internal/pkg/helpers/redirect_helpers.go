package helpers

import (
	"net/url"
	"strings"
)

// SafeNextPath returns next when it is a local absolute path, otherwise fallback.
// Scheme-relative and absolute URLs are rejected so login cannot redirect off-site.
func SafeNextPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
