package markup_test

import (
	"strings"
	"testing"

	"sleuth/internal/markup"
)

const registryDocument = `<html><body>
<div class="registerItemSearch-results-page-line">
  <div class="registerItemSearch-results-page-line-ItemBox">
    <div class="registerItemSearch-results-page-line-item1 registryInfo">Ontario Business Corporation</div>
    <a class="registerItemSearch-results-page-line-ItemBox-resultLeft-viewMenu" href="/view/727645">MTD PRODUCTS LIMITED (727645)</a>
    <div class="statusSearchResult appMinimalBox">
      <span class="appMinimalLabel">Status</span>
      <span class="appMinimalValue">Active</span>
    </div>
    <div class="addressSearchResultBox">
      <div class="appAttrValue">97 Kent Ave, Kitchener</div>
    </div>
    <div class="appMinimalBox EntitySubTypeCode">
      <span class="appMinimalLabel">Business Type</span>
      <span class="appMinimalValue">Corporation</span>
    </div>
    <div class="appMinimalBox RegistrationDate">
      <span class="appMinimalLabel">Incorporation Date</span>
      <span class="appMinimalValue">March 15, 1987</span>
    </div>
    <div class="previousNameSearchResult">
      <span class="appMinimalLabel">Previously known as</span>
      <span class="appMinimalValue">MTD PRODUCTS CO</span>
    </div>
  </div>
</div>
</body></html>`

func TestExtractRegistryMarkup(t *testing.T) {
	fields := markup.Extract(registryDocument)

	want := map[string]string{
		markup.FieldCompanyName:       "MTD PRODUCTS LIMITED",
		markup.FieldCorporationNumber: "727645",
		markup.FieldRegistryType:      "Ontario Business Corporation",
		markup.FieldStatus:            "Active",
		markup.FieldAddress:           "97 Kent Ave, Kitchener",
		markup.FieldBusinessType:      "Corporation",
		markup.FieldIncorporationDate: "March 15 1987",
		markup.FieldPreviousNames:     "MTD PRODUCTS CO",
	}
	for label, value := range want {
		if got := fields.Value(label); got != value {
			t.Errorf("field %s = %q, want %q", label, got, value)
		}
	}
	if keys := fields.Keys(); len(keys) == 0 || keys[0] != markup.FieldCompanyName {
		t.Errorf("expected company name first, got keys %v", keys)
	}
	if fields.RawExcerpt == "" {
		t.Error("expected raw excerpt to be captured")
	}
}

func TestExtractGenericMarkup(t *testing.T) {
	document := `<div class="search-result">
  <h3>Union Co-operative Homes Inc.</h3>
  <p>Status: Active</p>
  <p>Incorporation Date: January 5, 1999</p>
  <p>Business Type: Co-operative</p>
</div>`

	fields := markup.Extract(document)

	if got := fields.EntityName(); got != "Union Co-operative Homes Inc." {
		t.Errorf("entity name = %q", got)
	}
	if got := fields.Value(markup.FieldStatus); got != "Active" {
		t.Errorf("status = %q", got)
	}
	if got := fields.Value(markup.FieldIncorporationDate); got != "January 5 1999" {
		t.Errorf("incorporation date = %q, want commas removed", got)
	}
	if got := fields.Value(markup.FieldBusinessType); got != "Co-operative" {
		t.Errorf("business type = %q", got)
	}
}

func TestExtractBoldLabelRow(t *testing.T) {
	document := `<div class="result-item">
  <h2>Maple Grange Farms Ltd.</h2>
  <div class="detail-row"><b>Registry Type</b> Business Name</div>
</div>`

	fields := markup.Extract(document)

	if got := fields.EntityName(); got != "Maple Grange Farms Ltd." {
		t.Errorf("entity name = %q", got)
	}
	if got := fields.Value(markup.FieldRegistryType); got != "Business Name" {
		t.Errorf("registry type = %q", got)
	}
}

func TestExtractGenericBlockClass(t *testing.T) {
	document := `<div class="lookup-result-container"><h2>Cedar Valley Orchards Ltd.</h2></div>`

	fields := markup.Extract(document)
	if got := fields.EntityName(); got != "Cedar Valley Orchards Ltd." {
		t.Errorf("entity name = %q", got)
	}
}

func TestExtractNameFallbackToAnchor(t *testing.T) {
	document := `<div class="search-result">
  <span>Registered</span>
  <a href="mailto:records@example.gov">mailto:records@example.gov</a>
  <a href="/record/9">Northern Lights Trading</a>
</div>`

	fields := markup.Extract(document)
	if got := fields.EntityName(); got != "Northern Lights Trading" {
		t.Errorf("entity name = %q", got)
	}
}

func TestExtractNoResultBlock(t *testing.T) {
	fields := markup.Extract(`<html><body><p>No results found for your search.</p></body></html>`)

	if fields.Len() != 0 {
		t.Errorf("expected empty map, got %d fields: %v", fields.Len(), fields.Keys())
	}
	if fields.EntityName() != "" {
		t.Errorf("expected no entity name, got %q", fields.EntityName())
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	fields := markup.Extract("")
	if fields.Len() != 0 {
		t.Errorf("expected empty map, got %v", fields.Keys())
	}
}

func TestExtractTruncatedMarkup(t *testing.T) {
	fields := markup.Extract(`<div class="search-result"><h3>Acme`)
	if got := fields.EntityName(); got != "Acme" {
		t.Errorf("entity name = %q", got)
	}
}

func TestExtractNumberOnlyName(t *testing.T) {
	fields := markup.Extract(`<div class="search-result"><h3>(727645)</h3></div>`)

	if got := fields.EntityName(); got != "" {
		t.Errorf("expected no entity name, got %q", got)
	}
	if got := fields.Value(markup.FieldCorporationNumber); got != "727645" {
		t.Errorf("corporation number = %q", got)
	}
}

func TestExtractCapsRawExcerpt(t *testing.T) {
	document := `<div class="search-result"><h3>Big Co</h3><p>` + strings.Repeat("x", 3000) + `</p></div>`

	fields := markup.Extract(document)
	if got := fields.EntityName(); got != "Big Co" {
		t.Errorf("entity name = %q", got)
	}
	if len(fields.RawExcerpt) == 0 || len(fields.RawExcerpt) > 2000 {
		t.Errorf("raw excerpt length = %d, want 1..2000", len(fields.RawExcerpt))
	}
}

func TestExtractSkipsOversizedRows(t *testing.T) {
	document := `<div class="search-result">
  <h3>Oversize Rows Inc</h3>
  <p>Status: ` + strings.Repeat("y", 1200) + `</p>
</div>`

	fields := markup.Extract(document)
	if fields.Has(markup.FieldStatus) {
		t.Errorf("expected oversized row to be skipped, got status %q", fields.Value(markup.FieldStatus))
	}
}
