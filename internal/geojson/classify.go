package geojson

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// corporateTokens exclude a name when present as whole words. LTD and
// LIMITED additionally exclude as substrings; registry exports glue them onto
// names often enough that the coarser check pays for its false positives.
var corporateTokens = map[string]struct{}{
	"LTD":          {},
	"LIMITED":      {},
	"INC":          {},
	"INCORPORATED": {},
	"CORP":         {},
	"CORPORATION":  {},
	"COMPANY":      {},
	"HOLDINGS":     {},
	"LLC":          {},
	"LLP":          {},
}

// PrivateOwner reports whether name looks like a private individual rather
// than a corporate registrant. The heuristic errs toward false: an ambiguous
// name is treated as corporate and skipped rather than queried.
//
// Names are uppercased and split on whitespace, then filtered in order:
// corporate keywords reject; an all-digit word rejects unless some digit word
// is a plausible year (1900-2100); short leading or trailing numbers next to
// a longer word reject as lot-number shapes; a PRIVATE token accepts; finally
// 2-4 words that each start with an uppercase letter and carry a vowel (when
// longer than two characters) accept as a person-name shape.
func PrivateOwner(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if utf8.RuneCountInString(upper) < 3 {
		return false
	}
	if strings.Contains(upper, "LTD") || strings.Contains(upper, "LIMITED") {
		return false
	}

	words := strings.Fields(upper)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		if _, corporate := corporateTokens[word]; corporate {
			return false
		}
	}

	if hasDigitWord(words) && !hasPlausibleYear(words) {
		return false
	}
	if len(words) >= 2 {
		// Lot-number shapes: "123 MAIN ST" and "BLOCK 45". These run after
		// the year allowance, so "JOHN SMITH 2020" still rejects.
		if isShortNumber(words[0]) && runeLen(words[1]) > 2 {
			return false
		}
		last := words[len(words)-1]
		if isShortNumber(last) && runeLen(words[len(words)-2]) > 2 {
			return false
		}
	}

	for _, word := range words {
		if word == "PRIVATE" {
			return true
		}
	}

	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, word := range words {
		first, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(first) {
			return false
		}
	}
	for _, word := range words {
		if runeLen(word) > 2 && !strings.ContainsAny(word, "AEIOU") {
			return false
		}
	}
	return true
}

// SplitPrivate partitions names into private individuals and corporate
// registrants, preserving order within each slice.
func SplitPrivate(names []string) (private, corporate []string) {
	for _, name := range names {
		if PrivateOwner(name) {
			private = append(private, name)
		} else {
			corporate = append(corporate, name)
		}
	}
	return private, corporate
}

func hasDigitWord(words []string) bool {
	for _, word := range words {
		if isDigits(word) {
			return true
		}
	}
	return false
}

func hasPlausibleYear(words []string) bool {
	for _, word := range words {
		if !isDigits(word) {
			continue
		}
		year, err := strconv.Atoi(word)
		if err == nil && year >= 1900 && year <= 2100 {
			return true
		}
	}
	return false
}

func isShortNumber(word string) bool {
	return isDigits(word) && runeLen(word) <= 4
}

func isDigits(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func runeLen(word string) int {
	return utf8.RuneCountInString(word)
}
