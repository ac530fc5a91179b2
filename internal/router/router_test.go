package router

import "testing"

func TestRouteGreetings(t *testing.T) {
	// Case-insensitive, whitespace-trimmed
	inputs := []string{" Hi ", "HELLO", "hey", "Greetings", "start", "\thi\n"}

	for _, input := range inputs {
		intent := Route(input)
		if intent.Kind != KindGreeting {
			t.Errorf("Route(%q) = %s, expected greeting", input, intent.Kind)
		}
	}
}

func TestRouteBooking(t *testing.T) {
	tests := []struct {
		message     string
		destination string
	}{
		{"I want to book a trip to Paris", "paris"},
		{"book a holiday to Tokyo", "tokyo"},
		{"I'm looking to book a flight to New York", "new york"},
		{"want to book something to Rome", "rome"},
		{"Book my family trip to  Buenos   Aires", "buenos aires"},
		{"book a trip to Lisbon!", "lisbon"},
	}

	for _, tt := range tests {
		intent := Route(tt.message)
		if intent.Kind != KindBooking {
			t.Errorf("Route(%q) = %s, expected booking", tt.message, intent.Kind)
			continue
		}
		if intent.Destination != tt.destination {
			t.Errorf("Route(%q) destination = %q, expected %q", tt.message, intent.Destination, tt.destination)
		}
	}
}

func TestRouteGeneralQuery(t *testing.T) {
	inputs := []string{
		"what documents do I need for a visa?",
		"tell me about travel insurance",
		"booking", // not a booking phrase, no destination
		"hi there", // not an exact greeting match
		"",
	}

	for _, input := range inputs {
		intent := Route(input)
		if intent.Kind != KindGeneral {
			t.Errorf("Route(%q) = %s, expected general", input, intent.Kind)
		}
	}
}

func TestRouteDeterministic(t *testing.T) {
	message := "I want to book a trip to Paris"

	first := Route(message)
	for i := 0; i < 10; i++ {
		if got := Route(message); got != first {
			t.Fatalf("Route is not deterministic: %v vs %v", got, first)
		}
	}
}

func TestRouteMatcherOrder(t *testing.T) {
	// "trip" phrasing is listed before "want to book": a message matching
	// both must take the first pattern's capture.
	intent := Route("I want to book a trip to Oslo")
	if intent.Kind != KindBooking || intent.Destination != "oslo" {
		t.Errorf("expected booking to oslo, got %v", intent)
	}
}
