package browser_test

import (
	"testing"

	"sleuth/internal/browser"
)

func TestLocatorMatchesText(t *testing.T) {
	tests := []struct {
		name    string
		locator browser.Locator
		text    string
		want    bool
	}{
		{
			name:    "empty constraint matches anything",
			locator: browser.BySelector("button"),
			text:    "whatever",
			want:    true,
		},
		{
			name:    "contains is case insensitive",
			locator: browser.ByText("button", "accept all"),
			text:    "  Accept ALL cookies ",
			want:    true,
		},
		{
			name:    "contains miss",
			locator: browser.ByText("button", "Accept all"),
			text:    "Decline",
			want:    false,
		},
		{
			name:    "exact collapses whitespace",
			locator: browser.ByExactText("button", "Search"),
			text:    " Search \n",
			want:    true,
		},
		{
			name:    "exact is case sensitive",
			locator: browser.ByExactText("button", "Search"),
			text:    "SEARCH",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.locator.MatchesText(tt.text); got != tt.want {
				t.Errorf("MatchesText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLocatorString(t *testing.T) {
	tests := []struct {
		locator browser.Locator
		want    string
	}{
		{browser.BySelector("#QueryString"), "#QueryString"},
		{browser.ByText("button", "Search"), `button[text*="Search"]`},
		{browser.ByExactText("button", "Search"), `button[text="Search"]`},
	}
	for _, tt := range tests {
		if got := tt.locator.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
