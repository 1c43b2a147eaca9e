package namematch

import (
	"strings"

	"sleuth/internal/markup"
)

// Confidence tiers. A decision carries exactly one of these (or zero);
// the highest tier that fired wins.
const (
	confidenceDirect  = 0.95
	confidenceTerm    = 0.85
	confidenceAcronym = 0.80
	confidenceWeak    = 0.70
)

// Decision is the outcome of comparing a query name against an extracted
// candidate. MatchedName carries the candidate's entity name whenever one
// was extracted, matched or not.
type Decision struct {
	Matched     bool
	MatchedName string
	Confidence  float64
}

// Decide compares a query name against the candidate in fields. A missing
// entity name yields the zero Decision. Otherwise the tiers fire in priority
// order: whole-name variation intersection (0.95), common term (0.85),
// acronym collision (0.80), then token substring containment or a co-op
// token on both sides (0.70). Decide never returns an error.
func Decide(queryName string, fields markup.FieldMap) Decision {
	candidate := fields.EntityName()
	if candidate == "" {
		return Decision{}
	}

	queryVars := Variations(queryName)
	candidateVars := Variations(candidate)

	if queryVars.coreIntersects(candidateVars) {
		return Decision{Matched: true, MatchedName: candidate, Confidence: confidenceDirect}
	}

	queryTerms := queryVars.terms()
	candidateTerms := candidateVars.terms()

	if intersects(queryTerms, candidateTerms) {
		return Decision{Matched: true, MatchedName: candidate, Confidence: confidenceTerm}
	}
	if intersects(queryVars.acronyms(), candidateVars.acronyms()) {
		return Decision{Matched: true, MatchedName: candidate, Confidence: confidenceAcronym}
	}
	if hasSubstringPair(queryTerms, candidateTerms) || (hasCoopToken(queryTerms) && hasCoopToken(candidateTerms)) {
		return Decision{Matched: true, MatchedName: candidate, Confidence: confidenceWeak}
	}
	return Decision{MatchedName: candidate}
}

func intersects(a, b map[string]struct{}) bool {
	for v := range a {
		if _, ok := b[v]; ok {
			return true
		}
	}
	return false
}

// hasSubstringPair reports whether any term on one side contains, or is
// contained by, a term on the other.
func hasSubstringPair(a, b map[string]struct{}) bool {
	for x := range a {
		for y := range b {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				return true
			}
		}
	}
	return false
}

func hasCoopToken(terms map[string]struct{}) bool {
	_, hyphenated := terms["co-op"]
	_, plain := terms["coop"]
	return hyphenated || plain
}
