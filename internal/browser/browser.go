package browser

import (
	"context"
	"fmt"
	"strings"

	"sleuth/internal/textutil"
)

// Locator addresses elements on a rendered page: a CSS selector plus an
// optional visible-text constraint. Text comparison collapses whitespace
// first; Exact requires the whole collapsed string, otherwise a
// case-insensitive substring check applies.
type Locator struct {
	Selector string
	Text     string
	Exact    bool
}

// BySelector builds a locator that matches on CSS selector alone.
func BySelector(selector string) Locator {
	return Locator{Selector: selector}
}

// ByText builds a locator for elements whose text contains text.
func ByText(selector, text string) Locator {
	return Locator{Selector: selector, Text: text}
}

// ByExactText builds a locator for elements whose collapsed text equals text.
func ByExactText(selector, text string) Locator {
	return Locator{Selector: selector, Text: text, Exact: true}
}

// MatchesText reports whether an element's visible text satisfies the text
// constraint. An empty constraint matches anything.
func (l Locator) MatchesText(text string) bool {
	if l.Text == "" {
		return true
	}
	have := textutil.CollapseWhitespace(text)
	want := textutil.CollapseWhitespace(l.Text)
	if l.Exact {
		return have == want
	}
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}

// String renders the locator for logs and error messages.
func (l Locator) String() string {
	switch {
	case l.Text == "":
		return l.Selector
	case l.Exact:
		return fmt.Sprintf("%s[text=%q]", l.Selector, l.Text)
	default:
		return fmt.Sprintf("%s[text*=%q]", l.Selector, l.Text)
	}
}

// Driver owns a browser engine and hands out isolated pages. Implementations
// must tolerate concurrent NewPage calls; individual pages are never shared
// across sessions.
type Driver interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one isolated browsing context holding a single rendered document.
// Fill clears the target control before typing.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Locate(ctx context.Context, locator Locator) ([]Control, error)
	Fill(ctx context.Context, locator Locator, text string) error
	Content(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Control is a handle on one located element.
type Control interface {
	Clickable(ctx context.Context) bool
	Click(ctx context.Context) error
	Text(ctx context.Context) (string, error)
}
