package document

import "strings"

// BaseURL is the root every relative identifier resolves against.
const BaseURL = "https://www.procyclingstats.com/"

// RelativeURL strips scheme and host from u and trims surrounding slashes.
// Relative input is only trimmed.
func RelativeURL(u string) string {
	u = strings.TrimSpace(u)
	if i := strings.Index(u, "://"); i >= 0 {
		rest := u[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			u = rest[j+1:]
		} else {
			u = ""
		}
	}
	return strings.Trim(u, "/")
}

// AbsoluteURL resolves u against BaseURL.
func AbsoluteURL(u string) string {
	return BaseURL + RelativeURL(u)
}

// Segments splits a URL path into its non-empty segments.
func Segments(u string) []string {
	var parts []string
	for _, p := range strings.Split(RelativeURL(u), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// HasSegment reports whether href contains segment as a whole path part.
func HasSegment(href, segment string) bool {
	for _, p := range strings.Split(href, "/") {
		if p == segment {
			return true
		}
	}
	return false
}
