package namematch_test

import (
	"testing"

	"sleuth/internal/markup"
	"sleuth/internal/namematch"
)

func recordWithName(name string) markup.FieldMap {
	var fields markup.FieldMap
	fields.Set(markup.FieldCompanyName, name)
	return fields
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		candidate      string
		wantMatched    bool
		wantConfidence float64
	}{
		{
			name:           "direct match through suffix and number",
			query:          "MTD Products Limited",
			candidate:      "MTD Products Inc. (1234567)",
			wantMatched:    true,
			wantConfidence: 0.95,
		},
		{
			name:           "self match across casing and suffix",
			query:          "MTD PRODUCTS LTD.",
			candidate:      "Mtd Products Limited",
			wantMatched:    true,
			wantConfidence: 0.95,
		},
		{
			name:           "shared terms across co-op spellings",
			query:          "Union Co-op",
			candidate:      "Union Cooperative Association",
			wantMatched:    true,
			wantConfidence: 0.85,
		},
		{
			name:           "acronym collision",
			query:          "GE",
			candidate:      "Great Eastern Holdings",
			wantMatched:    true,
			wantConfidence: 0.80,
		},
		{
			name:           "substring overlap",
			query:          "Johnson",
			candidate:      "Johnsonville Meats",
			wantMatched:    true,
			wantConfidence: 0.70,
		},
		{
			name:           "unrelated names",
			query:          "Totally Unrelated Name",
			candidate:      "ABC Holdings Inc",
			wantMatched:    false,
			wantConfidence: 0,
		},
		{
			name:           "co-op on one side only",
			query:          "Union Co-op",
			candidate:      "Harbour Ventures",
			wantMatched:    false,
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := namematch.Decide(tt.query, recordWithName(tt.candidate))
			if decision.Matched != tt.wantMatched {
				t.Errorf("Matched = %v, want %v", decision.Matched, tt.wantMatched)
			}
			if decision.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", decision.Confidence, tt.wantConfidence)
			}
			if decision.MatchedName != tt.candidate {
				t.Errorf("MatchedName = %q, want %q", decision.MatchedName, tt.candidate)
			}
		})
	}
}

func TestDecideNoCandidateName(t *testing.T) {
	var fields markup.FieldMap
	fields.Set(markup.FieldStatus, "Active")

	decision := namematch.Decide("MTD Products Limited", fields)
	if decision.Matched || decision.MatchedName != "" || decision.Confidence != 0 {
		t.Errorf("Decide without candidate name = %+v, want zero decision", decision)
	}
}

func TestDecideEmptyQuery(t *testing.T) {
	decision := namematch.Decide("", recordWithName("Acme Holdings"))
	if decision.Matched {
		t.Errorf("empty query matched %q", decision.MatchedName)
	}
	if decision.MatchedName != "Acme Holdings" {
		t.Errorf("MatchedName = %q, want candidate carried through", decision.MatchedName)
	}
}
