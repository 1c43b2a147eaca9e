package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sleuth/internal/textutil"
)

// blockSelectors locate the result container. The first selector yielding at
// least one block wins; registry-specific classes come before generic ones.
var blockSelectors = []string{
	"div.registerItemSearch-results-page-line",
	"div.search-result",
	"div.result-item",
	`div[class*="result"]`,
	`div[class*="item"]`,
}

// namePatterns locate entity name candidates inside a result block.
var namePatterns = []string{
	`a[class*="viewMenu"]`,
	`div[class*="name"]`,
	"h3", "h2", "h1",
	`span[class*="title"]`,
	`div[class*="title"]`,
	`a[href*="view"]`,
	"strong", "b",
	"div:first-child",
	"a:first-child",
}

// rowSelectors locate potential label/value rows inside a block.
var rowSelectors = []string{
	`div[class*="row"]`,
	"tr",
	`div[class*="item"]`,
	`div[class*="field"]`,
	`div[class*="detail"]`,
	"p",
	"div > div",
}

// previousNameSelectors locate the previous-names section inside a block.
var previousNameSelectors = []string{
	"div.previousNameSearchResult",
	"div.previous-names",
	"div.previousNamesBox",
}

var (
	corpNumberPattern = regexp.MustCompile(`\(\s*(\d+)\s*\)\s*$`)
	labelValuePattern = regexp.MustCompile(`^(.*?)[:：]\s*(.*)$`)
	boldLabelPattern  = regexp.MustCompile(`(?is)<b[^>]*>(.*?)</b>\s*([^<]+)`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// Extract parses a rendered result document and returns the fields of the
// first result block. Parse failures yield whatever was extracted up to that
// point; a document without a result block yields an empty map. Extract
// never panics past its boundary.
func Extract(document string) (fields FieldMap) {
	defer func() {
		// arbitrary portal markup must not take down a worker
		_ = recover()
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return fields
	}
	block := firstBlock(doc)
	if block == nil {
		return fields
	}
	extractBlock(block, &fields)
	return fields
}

func firstBlock(doc *goquery.Document) *goquery.Selection {
	for _, selector := range blockSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// extractBlock fills m from one result block. Specific probes run before the
// generic row scan so that labeled rows cannot displace them: the first value
// stored for a label wins.
func extractBlock(block *goquery.Selection, m *FieldMap) {
	if serialized, err := goquery.OuterHtml(block); err == nil {
		m.setRawExcerpt(serialized)
	}

	extractEntityName(block, m)
	extractRegistryType(block, m)
	extractStatus(block, m)
	extractAddress(block, m)
	extractPreviousNames(block, m)
	scanRows(block, m)
	extractBusinessType(block, m)
	extractIncorporationDate(block, m)

	m.applyRenames()
	splitCorporationNumber(m)
}

// extractEntityName picks the entity name from the candidate cascade: every
// pattern contributes candidates, duplicates collapse in order, lengths
// outside 3..100 runes drop out, and the longest survivor wins. When no
// pattern produces a usable candidate, the first anchor whose text is not a
// bare link target is taken instead.
func extractEntityName(block *goquery.Selection, m *FieldMap) {
	var candidates []string
	seen := make(map[string]struct{})
	for _, pattern := range namePatterns {
		block.Find(pattern).Each(func(_ int, s *goquery.Selection) {
			text := textutil.CollapseWhitespace(s.Text())
			if utf8.RuneCountInString(text) <= 2 {
				return
			}
			switch strings.ToLower(text) {
			case "view", "details", "more":
				return
			}
			if _, ok := seen[text]; ok {
				return
			}
			seen[text] = struct{}{}
			candidates = append(candidates, text)
		})
	}

	var best string
	for _, candidate := range candidates {
		n := utf8.RuneCountInString(candidate)
		if n < 3 || n > 100 {
			continue
		}
		if n > utf8.RuneCountInString(best) {
			best = candidate
		}
	}
	if best != "" {
		m.Set(FieldCompanyName, best)
		return
	}

	block.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := textutil.CollapseWhitespace(s.Text())
		if utf8.RuneCountInString(text) <= 2 {
			return true
		}
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, "http") || strings.HasPrefix(lower, "www") || strings.HasPrefix(lower, "mailto:") {
			return true
		}
		m.Set(FieldCompanyName, text)
		return false
	})
}

func extractRegistryType(block *goquery.Selection, m *FieldMap) {
	sel := block.Find(".registerItemSearch-results-page-line-item1.registryInfo").First()
	if sel.Length() == 0 {
		return
	}
	m.Set(FieldRegistryType, textutil.CollapseWhitespace(sel.Text()))
}

// extractStatus reads the value child of a status-classed element.
func extractStatus(block *goquery.Selection, m *FieldMap) {
	container := block.Find(`div[class*="status"], div[class*="Status"]`).First()
	if container.Length() == 0 {
		return
	}
	value := container.Find(`[class*="appMinimalValue"], [class*="value"]`).First()
	if value.Length() == 0 {
		return
	}
	m.Set(FieldStatus, textutil.CollapseWhitespace(value.Text()))
}

// extractAddress keeps the longest text among address-classed boxes, skipping
// container boxes that carry no attribute value of their own.
func extractAddress(block *goquery.Selection, m *FieldMap) {
	var best string
	block.Find(`div[class*="ItemAddress"], div[class*="address"]`).Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("addressSearchResultBox") && s.Find("div.appAttrValue").Length() == 0 {
			return
		}
		text := joinedText(s)
		if len(text) > len(best) {
			best = text
		}
	})
	m.Set(FieldAddress, best)
}

func extractPreviousNames(block *goquery.Selection, m *FieldMap) {
	section := findPreviousNamesSection(block)
	if section == nil {
		return
	}

	var names []string
	seen := make(map[string]struct{})
	section.Find(`[class*="Name"], [class*="appMinimalValue"]`).Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("appMinimalLabel") {
			return
		}
		name := textutil.CollapseWhitespace(s.Text())
		switch strings.ToLower(name) {
		case "", "previously known as", "name":
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	})

	if len(names) == 0 {
		for _, text := range textNodes(section) {
			if utf8.RuneCountInString(text) > 3 && !strings.Contains(strings.ToLower(text), "previously") {
				names = append(names, text)
			}
		}
	}
	if len(names) > 0 {
		m.Set(FieldPreviousNames, strings.Join(names, "; "))
	}
}

func findPreviousNamesSection(block *goquery.Selection) *goquery.Selection {
	for _, selector := range previousNameSelectors {
		if sel := block.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	// minimal boxes label their sections; match on the label text
	var section *goquery.Selection
	block.Find("div.appMinimalBox").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := textutil.CollapseWhitespace(s.Find("span.appMinimalLabel").First().Text())
		if strings.EqualFold(label, "previously known as") {
			section = s
			return false
		}
		return true
	})
	return section
}

// scanRows walks candidate rows and extracts label/value pairs from two
// shapes: visible "label: value" text, and a bold label followed by text.
// Rows whose serialized form is under 10 or over 1000 bytes are skipped.
func scanRows(block *goquery.Selection, m *FieldMap) {
	for _, selector := range rowSelectors {
		block.Find(selector).Each(func(_ int, row *goquery.Selection) {
			serialized, err := goquery.OuterHtml(row)
			if err != nil {
				return
			}
			if len(serialized) < 10 || len(serialized) > 1000 {
				return
			}
			if match := labelValuePattern.FindStringSubmatch(joinedText(row)); match != nil {
				setPair(m, match[1], match[2])
			}
			if match := boldLabelPattern.FindStringSubmatch(serialized); match != nil {
				label := tagPattern.ReplaceAllString(match[1], " ")
				setPair(m, label, match[2])
			}
		})
	}
}

// setPair applies the guards shared by both row patterns: labels are
// uppercased with surrounding colons removed, labels of 50 or more runes and
// values of 200 or more are rejected, and date values lose their commas.
func setPair(m *FieldMap, label, value string) {
	label = strings.ToUpper(textutil.CollapseWhitespace(strings.Trim(strings.TrimSpace(label), ":：")))
	value = textutil.CollapseWhitespace(value)
	if label == "" || value == "" {
		return
	}
	if utf8.RuneCountInString(label) >= 50 || utf8.RuneCountInString(value) >= 200 {
		return
	}
	if strings.Contains(strings.ToLower(label), "date") {
		value = strings.ReplaceAll(value, ",", "")
	}
	m.Set(label, value)
}

func extractBusinessType(block *goquery.Selection, m *FieldMap) {
	if m.Has(FieldBusinessType) {
		return
	}
	container := block.Find(`div[class*="EntitySubTypeCode"], div[class*="business-type"]`).First()
	if container.Length() == 0 {
		return
	}
	value := container.Find(`[class*="appMinimalValue"], [class*="value"]`).First()
	if value.Length() == 0 {
		return
	}
	m.Set(FieldBusinessType, textutil.CollapseWhitespace(value.Text()))
}

func extractIncorporationDate(block *goquery.Selection, m *FieldMap) {
	if m.Has(FieldIncorporationDate) {
		return
	}
	container := block.Find(`div[class*="RegistrationDate"], div[class*="incorporation-date"]`).First()
	if container.Length() == 0 {
		return
	}
	value := container.Find(`span[class*="appMinimalValue"], span[class*="value"]`).First()
	text := textutil.CollapseWhitespace(value.Text())
	if text == "" || strings.HasPrefix(text, "Incorporation") {
		return
	}
	m.Set(FieldIncorporationDate, strings.ReplaceAll(text, ",", ""))
}

// splitCorporationNumber captures a trailing "(digits)" from the entity name
// into its own field and strips it from the name.
func splitCorporationNumber(m *FieldMap) {
	name := m.EntityName()
	if name == "" {
		return
	}
	match := corpNumberPattern.FindStringSubmatch(name)
	if match == nil {
		return
	}
	m.Set(FieldCorporationNumber, match[1])
	trimmed := strings.TrimSpace(corpNumberPattern.ReplaceAllString(name, ""))
	if trimmed == "" {
		m.Delete(FieldCompanyName)
		return
	}
	m.Replace(FieldCompanyName, trimmed)
}

// textNodes collects the trimmed text nodes under a selection in document
// order. goquery's Text concatenates nodes without separators, which glues
// sibling cells together; walking the nodes keeps them apart.
func textNodes(s *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := textutil.CollapseWhitespace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range s.Nodes {
		walk(node)
	}
	return out
}

func joinedText(s *goquery.Selection) string {
	return strings.Join(textNodes(s), " ")
}
