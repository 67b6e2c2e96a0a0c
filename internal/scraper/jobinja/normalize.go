package jobinja

import (
	"net/url"
	"strconv"
	"strings"
)

// NormalizeLink reduces a listing href to its canonical company path, e.g.
// https://jobinja.ir/companies/acme/jobs/AbC1/golang-developer?ref=search
// becomes https://jobinja.ir/companies/acme/jobs. Applying it twice gives
// the same result as applying it once.
func NormalizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	parts := strings.Split(raw, "/")
	if len(parts) > canonicalSegments {
		parts = parts[:canonicalSegments]
	}
	return strings.Join(parts, "/")
}

// pageURL sets the page query parameter on the search URL
func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// resolve turns a possibly relative href into an absolute URL
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
