package session

import "sleuth/internal/browser"

// submitLocators is the submit-control cascade, most portable first. The
// trailing id is the lookup portal's own submit node, kept as the last resort
// when the generic candidates are absent.
var submitLocators = []browser.Locator{
	browser.BySelector("button[type='submit']"),
	browser.BySelector("input[type='submit']"),
	browser.ByExactText("button", "Search"),
	browser.ByExactText("button", "SEARCH"),
	browser.BySelector("input[value='Search']"),
	browser.BySelector("input[value='SEARCH']"),
	browser.BySelector("#nodeW20"),
}

// resultSelectors mark rendered result containers; any match ends the result
// wait early.
var resultSelectors = []string{
	"div.registerItemSearch-results-page-line-ItemBox",
	"div.search-results",
	"div.result-item",
	"div.search-result",
}

// noResultsPhrases end the result wait when the portal reports an empty
// result set.
var noResultsPhrases = []string{
	"No results found",
	"No matches found",
}
