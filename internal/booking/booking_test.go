package booking

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		destination string
		expected    string
	}{
		{"paris", "https://example.com/book/paris"},
		{"Tokyo", "https://example.com/book/tokyo"},
		{"New York", "https://example.com/book/new-york"},
		{"  Buenos   Aires  ", "https://example.com/book/buenos-aires"},
	}

	for _, tt := range tests {
		got := BuildURL(DefaultBaseURL, tt.destination)
		if got != tt.expected {
			t.Errorf("BuildURL(%q) = %q, expected %q", tt.destination, got, tt.expected)
		}
	}
}

func TestBuildURLEmptyDestination(t *testing.T) {
	// Empty hint yields the base URL unchanged
	if got := BuildURL(DefaultBaseURL, ""); got != DefaultBaseURL {
		t.Errorf("BuildURL(\"\") = %q, expected base URL", got)
	}
	if got := BuildURL(DefaultBaseURL, "   "); got != DefaultBaseURL {
		t.Errorf("BuildURL(blank) = %q, expected base URL", got)
	}
}

func TestBuildURLTrailingSlashBase(t *testing.T) {
	got := BuildURL("https://example.com/book/", "paris")
	if got != "https://example.com/book/paris" {
		t.Errorf("BuildURL with trailing slash base = %q", got)
	}
}
