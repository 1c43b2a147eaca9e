package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractResults extracts every result block in the document, using the same
// block cascade as Extract, and drops blocks that yield fewer than two
// fields. Documents without result blocks yield nil.
func ExtractResults(document string) (results []FieldMap) {
	defer func() {
		_ = recover()
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil
	}

	var blocks *goquery.Selection
	for _, selector := range blockSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			blocks = sel
			break
		}
	}
	if blocks == nil {
		return nil
	}

	blocks.Each(func(_ int, block *goquery.Selection) {
		var fields FieldMap
		extractBlock(block, &fields)
		if fields.Len() >= 2 {
			results = append(results, fields)
		}
	})
	return results
}
