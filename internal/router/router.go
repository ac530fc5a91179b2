// Package router classifies inbound chat messages into intents.
package router

import (
	"regexp"
	"strings"
)

// Kind is the intent category of an inbound message.
type Kind int

const (
	// KindGreeting is a simple salutation handled with a canned reply.
	KindGreeting Kind = iota
	// KindBooking is a booking-style request carrying a destination.
	KindBooking
	// KindGeneral is everything else, answered via retrieval.
	KindGeneral
)

func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindBooking:
		return "booking"
	case KindGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// Intent is the classification result for one message.
type Intent struct {
	Kind Kind
	// Destination is set only for KindBooking.
	Destination string
}

// greetings is the exact-match salutation vocabulary.
var greetings = map[string]bool{
	"hi":        true,
	"hello":     true,
	"hey":       true,
	"greetings": true,
	"start":     true,
}

// bookingMatcher pairs a named booking phrasing with its pattern. New
// phrasings are added to bookingMatchers without touching Route itself.
type bookingMatcher struct {
	name string
	re   *regexp.Regexp
}

// bookingMatchers is checked in order; the first match wins. Patterns run
// against the lower-cased message and capture the destination token.
var bookingMatchers = []bookingMatcher{
	{"book-trip-to", regexp.MustCompile(`\bbook\b.*?\btrip\b.*?\bto\s+(.+)`)},
	{"book-holiday-to", regexp.MustCompile(`\bbook\b.*?\bholiday\b.*?\bto\s+(.+)`)},
	{"want-to-book", regexp.MustCompile(`\bwant\s+to\s+book\b.*?\bto\s+(.+)`)},
	{"looking-to-book", regexp.MustCompile(`\blooking\s+to\s+book\b.*?\bto\s+(.+)`)},
}

// Route classifies a message. It is pure and deterministic: the same text
// always yields the same intent.
func Route(message string) Intent {
	text := strings.ToLower(strings.TrimSpace(message))

	if greetings[text] {
		return Intent{Kind: KindGreeting}
	}

	for _, m := range bookingMatchers {
		match := m.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		dest := cleanDestination(match[1])
		if dest == "" {
			continue
		}
		return Intent{Kind: KindBooking, Destination: dest}
	}

	return Intent{Kind: KindGeneral}
}

// cleanDestination trims surrounding whitespace and trailing punctuation and
// collapses internal whitespace runs to single spaces.
func cleanDestination(raw string) string {
	dest := strings.TrimSpace(raw)
	dest = strings.TrimRight(dest, ".!?,;")
	return strings.Join(strings.Fields(dest), " ")
}
