package namematch

import "strings"

// stopWords are dropped for the reduced whole-name variation.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "for": {}, "in": {}, "at": {},
	"on": {}, "by": {}, "to": {}, "with": {}, "a": {}, "an": {},
}

// VariationSet is the deterministic set of comparable forms of one name.
// Whole-name forms (the normalized name, its hyphen-folded, stop-word-
// filtered, and reversed renderings) are eligible for the direct match tier;
// partial forms (acronym, initials, leading words) only feed the weaker
// term and acronym tiers.
type VariationSet struct {
	ordered []string
	members map[string]struct{}
	core    map[string]struct{}
}

// Variations generates the matchable forms of a name. Empty or
// suffix-only input yields an empty set; a non-empty set always contains
// the normalized form.
func Variations(name string) VariationSet {
	var set VariationSet
	normalized := Normalize(name)
	if normalized == "" {
		return set
	}

	set.addCore(normalized)
	set.addCore(strings.ReplaceAll(normalized, "-", " "))

	var words []string
	for _, w := range strings.Fields(normalized) {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return set
	}

	var initials strings.Builder
	for _, w := range words {
		initials.WriteByte(w[0])
	}
	if acronym := initials.String(); len(acronym) > 1 {
		set.add(acronym)
	}
	if len(words) > 1 {
		set.add(words[0][:1] + words[1][:1])
		set.add(words[0] + " " + words[1])
	}
	set.add(words[0])

	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := stopWords[w]; !ok {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) > 0 && len(filtered) < len(words) {
		set.addCore(strings.Join(filtered, " "))
	}
	if len(words) == 2 {
		set.addCore(words[1] + " " + words[0])
	}
	return set
}

func (s *VariationSet) add(v string) {
	if v == "" {
		return
	}
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	if _, ok := s.members[v]; ok {
		return
	}
	s.members[v] = struct{}{}
	s.ordered = append(s.ordered, v)
}

func (s *VariationSet) addCore(v string) {
	if v == "" {
		return
	}
	s.add(v)
	if s.core == nil {
		s.core = make(map[string]struct{})
	}
	s.core[v] = struct{}{}
}

// Values returns the variations in generation order.
func (s VariationSet) Values() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Contains reports whether v is in the set.
func (s VariationSet) Contains(v string) bool {
	_, ok := s.members[v]
	return ok
}

// Len returns the number of variations.
func (s VariationSet) Len() int {
	return len(s.ordered)
}

// Empty reports whether the set has no variations.
func (s VariationSet) Empty() bool {
	return len(s.ordered) == 0
}

// coreIntersects reports whether any whole-name form appears in both sets.
func (s VariationSet) coreIntersects(other VariationSet) bool {
	for v := range s.core {
		if _, ok := other.core[v]; ok {
			return true
		}
	}
	return false
}

// terms returns the pooled tokens of every variation, dropping tokens of
// one or two characters.
func (s VariationSet) terms() map[string]struct{} {
	terms := make(map[string]struct{})
	for _, v := range s.ordered {
		for _, tok := range strings.Fields(v) {
			if len(tok) > 2 {
				terms[tok] = struct{}{}
			}
		}
	}
	return terms
}

// acronyms returns the variations of at most four characters consisting
// solely of letters.
func (s VariationSet) acronyms() map[string]struct{} {
	out := make(map[string]struct{})
	for _, v := range s.ordered {
		if len(v) > 4 || !lettersOnly(v) {
			continue
		}
		out[v] = struct{}{}
	}
	return out
}

func lettersOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
