package namematch_test

import (
	"reflect"
	"testing"

	"sleuth/internal/namematch"
)

func TestVariations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "multi-word name",
			input: "MTD Products Limited",
			want:  []string{"mtd products", "mp", "mtd", "products mtd"},
		},
		{
			name:  "hyphenated name gains folded form",
			input: "Union Co-op",
			want:  []string{"union co-op", "union co op", "uc", "union", "co-op union"},
		},
		{
			name:  "single word",
			input: "Acme",
			want:  []string{"acme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := namematch.Variations(tt.input)
			if got := set.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variations(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVariationsStopWordForm(t *testing.T) {
	set := namematch.Variations("The Bank of Nova Scotia")
	if !set.Contains("bank nova scotia") {
		t.Errorf("variations %v missing stop-word filtered form", set.Values())
	}
	if !set.Contains("tbons") {
		t.Errorf("variations %v missing acronym", set.Values())
	}
	if !set.Contains("the bank of nova scotia") {
		t.Errorf("variations %v missing normalized name", set.Values())
	}
}

func TestVariationsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "Ltd."} {
		if set := namematch.Variations(input); !set.Empty() {
			t.Errorf("Variations(%q) = %v, want empty", input, set.Values())
		}
	}
}

func TestVariationsDeterministic(t *testing.T) {
	first := namematch.Variations("Northern Lights Trading Co.").Values()
	second := namematch.Variations("Northern Lights Trading Co.").Values()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("variation order not stable: %v vs %v", first, second)
	}
}
