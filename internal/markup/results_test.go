package markup_test

import (
	"testing"

	"sleuth/internal/markup"
)

func TestExtractResults(t *testing.T) {
	document := `<html><body>
<div class="registerItemSearch-results-page-line">
  <a class="viewMenu" href="/view/1">First Result Holdings (111222)</a>
  <div class="statusSearchResult"><span class="appMinimalValue">Active</span></div>
</div>
<div class="registerItemSearch-results-page-line"><span>—</span></div>
<div class="registerItemSearch-results-page-line">
  <h3>Third Result Farms</h3>
  <p>Status: Inactive</p>
</div>
</body></html>`

	results := markup.ExtractResults(document)
	if len(results) != 2 {
		t.Fatalf("expected 2 result blocks, got %d", len(results))
	}
	if got := results[0].EntityName(); got != "First Result Holdings" {
		t.Errorf("first entity = %q", got)
	}
	if got := results[0].Value(markup.FieldCorporationNumber); got != "111222" {
		t.Errorf("first corporation number = %q", got)
	}
	if got := results[1].EntityName(); got != "Third Result Farms" {
		t.Errorf("second entity = %q", got)
	}
	if got := results[1].Value(markup.FieldStatus); got != "Inactive" {
		t.Errorf("second status = %q", got)
	}
}

func TestExtractResultsNoBlocks(t *testing.T) {
	if results := markup.ExtractResults(`<html><body><p>nothing here</p></body></html>`); results != nil {
		t.Errorf("expected nil, got %v", results)
	}
}

func TestExtractResultsEmptyDocument(t *testing.T) {
	if results := markup.ExtractResults(""); results != nil {
		t.Errorf("expected nil, got %v", results)
	}
}
