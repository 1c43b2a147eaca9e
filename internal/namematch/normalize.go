package namematch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthesizedPattern = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	coopPattern          = regexp.MustCompile(`\b(?:co[\s-]?op(?:erative)?|coop(?:erative)?)\b`)
	nonAlnumPattern      = regexp.MustCompile(`[^a-z0-9\s-]`)
	spacedHyphenPattern  = regexp.MustCompile(`\s+-\s+`)
	hyphenRunPattern     = regexp.MustCompile(`-+`)
	spaceRunPattern      = regexp.MustCompile(`\s+`)
)

// suffixWords is the legal-suffix dictionary, removed as whole
// space-delimited words. Diacritic folding runs first, so only folded
// spellings appear here; dotted forms like "ltd." reduce to these entries
// once surrounding punctuation is trimmed.
var suffixWords = map[string]struct{}{
	"inc": {}, "llc": {}, "ltd": {}, "llp": {}, "corp": {},
	"corporation": {}, "limited": {}, "incorporated": {},
	"gmbh": {}, "ag": {}, "sarl": {}, "srl": {}, "pte": {}, "ltee": {},
	"bv": {}, "nv": {}, "oyj": {}, "ab": {}, "as": {},
	"company": {}, "co": {}, "lp": {}, "plc": {}, "lllp": {}, "lc": {},
	"pc": {}, "pa": {}, "societe": {},
}

// suffixPhrases are the multi-word dictionary entries, longest first so a
// long phrase is never shadowed by a shorter prefix.
var suffixPhrases = [][]string{
	{"societe", "en", "nom", "collectif"},
	{"societe", "en", "commandite"},
	{"professional", "corporation"},
	{"professional", "association"},
	{"societe", "anonyme"},
	{"p", "c"},
}

// symbolReplacer rewrites the symbols that carry words ("&" reads "and") and
// flattens sentence punctuation to spaces. Apostrophes vanish rather than
// split: "o'brien" compares as "obrien".
var symbolReplacer = strings.NewReplacer(
	"&", "and",
	"+", "and",
	"@", "at",
	"w/", "with",
	"w /", "with",
	"w.o.", "without",
	"vs.", "versus",
	"'s", "",
	"'", "",
	`"`, "",
	",", " ",
	".", " ",
	";", " ",
	":", " ",
)

// Normalize reduces a business or owner name to its comparable form:
// lowercased, diacritics folded to ASCII, parenthesized annotations dropped,
// the co-op family folded to the canonical "co-op" token, legal suffixes
// removed as whole words, symbols rewritten, and whitespace/hyphen runs
// collapsed. The co-op fold runs before suffix removal so the "co" dictionary
// entry cannot shred the canonical token.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	name = foldDiacritics(name)
	name = parenthesizedPattern.ReplaceAllString(name, " ")
	name = coopPattern.ReplaceAllString(name, "co-op")
	name = stripLegalSuffixes(name)
	name = symbolReplacer.Replace(name)
	name = nonAlnumPattern.ReplaceAllString(name, " ")
	name = spacedHyphenPattern.ReplaceAllString(name, "-")
	name = hyphenRunPattern.ReplaceAllString(name, "-")
	name = spaceRunPattern.ReplaceAllString(name, " ")
	return strings.Trim(name, " -")
}

// foldDiacritics strips combining marks after NFD decomposition. The chain
// transformer is stateful, so it is built per call rather than shared.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// stripLegalSuffixes drops dictionary words and phrases from the name.
// Tokens are whitespace-delimited; punctuation is trimmed from token edges
// before lookup so "ltd." and "inc," match, while hyphenated tokens like
// "co-op" stay whole.
func stripLegalSuffixes(name string) string {
	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if n := matchSuffixPhrase(tokens, i); n > 0 {
			i += n
			continue
		}
		if _, ok := suffixWords[trimTokenEdges(tokens[i])]; ok {
			i++
			continue
		}
		kept = append(kept, tokens[i])
		i++
	}
	return strings.Join(kept, " ")
}

func matchSuffixPhrase(tokens []string, start int) int {
	for _, phrase := range suffixPhrases {
		if start+len(phrase) > len(tokens) {
			continue
		}
		matched := true
		for j, want := range phrase {
			if trimTokenEdges(tokens[start+j]) != want {
				matched = false
				break
			}
		}
		if matched {
			return len(phrase)
		}
	}
	return 0
}

func trimTokenEdges(token string) string {
	return strings.Trim(token, `.,;:'"`)
}
