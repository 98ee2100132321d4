package domain

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes an article URL so that equivalent captures of
// the same article collapse to one identity.
//
// For an absolute URL the fragment is stripped, the URL is reserialized
// and trailing slashes are removed. Anything that does not parse as an
// absolute URL gets best-effort treatment: trailing slashes removed.
// Whitespace-only input normalizes to "".
//
// Normalize is pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return strings.TrimRight(s, "/")
	}

	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimRight(u.String(), "/")
}

// IsSameURL reports whether two raw URLs identify the same article.
func IsSameURL(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
