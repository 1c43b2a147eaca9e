package report

import "strings"

// ByBusinessType keeps entries whose extracted BUSINESS TYPE equals
// businessType. Comparison ignores case and surrounding whitespace but is
// otherwise exact, so "Business Corporation" does not pull in
// "Extra-Provincial Business Corporation".
func ByBusinessType(entries []Entry, businessType string) []Entry {
	want := strings.ToLower(strings.TrimSpace(businessType))
	var filtered []Entry
	for _, entry := range entries {
		if strings.ToLower(strings.TrimSpace(entry.BusinessType())) == want {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Unmatched keeps entries where the lookup produced no accepted match,
// including lookups that failed outright.
func Unmatched(entries []Entry) []Entry {
	var filtered []Entry
	for _, entry := range entries {
		if !entry.Matched {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// BusinessTypes returns the distinct extracted business types in first-seen
// order, with a count per type keyed by the first-seen spelling.
func BusinessTypes(entries []Entry) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, entry := range entries {
		businessType := strings.TrimSpace(entry.BusinessType())
		if businessType == "" {
			continue
		}
		key := strings.ToLower(businessType)
		name, seen := display[key]
		if !seen {
			name = businessType
			display[key] = name
			order = append(order, name)
		}
		counts[name]++
	}
	return order, counts
}
