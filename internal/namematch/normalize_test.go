package namematch_test

import (
	"testing"

	"sleuth/internal/namematch"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "legal suffix removed",
			input: "MTD Products Limited",
			want:  "mtd products",
		},
		{
			name:  "dotted suffix removed",
			input: "Union Co-operative Homes Inc.",
			want:  "union co-op homes",
		},
		{
			name:  "parenthesized number stripped",
			input: "ABC Holdings Inc (767232)",
			want:  "abc holdings",
		},
		{
			name:  "diacritics folded",
			input: "Société Générale",
			want:  "generale",
		},
		{
			name:  "apostrophe and ampersand",
			input: "O'Brien & Sons Ltd.",
			want:  "obrien and sons",
		},
		{
			name:  "owner name with comma",
			input: "Smith, John & Jane",
			want:  "smith john and jane",
		},
		{
			name:  "multi-word suffix p c",
			input: "JOHNSON P C",
			want:  "johnson",
		},
		{
			name:  "multi-word suffix professional corporation",
			input: "Evergreen Professional Corporation",
			want:  "evergreen",
		},
		{
			name:  "canonical co-op token survives suffix removal",
			input: "Co-op",
			want:  "co-op",
		},
		{
			name:  "coop folded to canonical token",
			input: "The Coop Bakery",
			want:  "the co-op bakery",
		},
		{
			name:  "cooperative folded",
			input: "Union Cooperative Association",
			want:  "union co-op association",
		},
		{
			name:  "spaced hyphen joined",
			input: "North - West Trading",
			want:  "north-west trading",
		},
		{
			name:  "plus and at rewritten",
			input: "A + B Trading @ Home",
			want:  "a and b trading at home",
		},
		{
			name:  "possessive collapsed",
			input: "Smith's Dairy",
			want:  "smith dairy",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
		{
			name:  "suffix-only name",
			input: "Ltd.",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := namematch.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := namematch.Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q -> %q", tt.input, got, again)
			}
		})
	}
}
