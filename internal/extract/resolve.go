package extract

import (
	"net/url"
	"strings"
)

// ResolveRef resolves a possibly-relative reference against a base URL.
// Pure function: stray whitespace is trimmed, absolute references pass
// through, and a missing or unparsable base leaves the reference as-is.
func ResolveRef(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return r.String()
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || b.Scheme == "" {
		return ref
	}
	return b.ResolveReference(r).String()
}
