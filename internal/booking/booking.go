// Package booking synthesizes deep links for booking requests.
package booking

import "strings"

// DefaultBaseURL is the booking page base used when none is configured.
const DefaultBaseURL = "https://example.com/book"

// BuildURL appends the normalized destination to the base URL as a path
// segment: lower-cased, internal whitespace replaced with hyphens. An empty
// destination yields the base URL unchanged. Pure function, no I/O.
func BuildURL(baseURL, destination string) string {
	base := strings.TrimRight(baseURL, "/")
	segment := normalizeDestination(destination)
	if segment == "" {
		return base
	}
	return base + "/" + segment
}

func normalizeDestination(destination string) string {
	fields := strings.Fields(strings.ToLower(destination))
	return strings.Join(fields, "-")
}
