package recorder

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeywordHit is the match status of one expected keyword.
type KeywordHit struct {
	Keyword string
	Matched bool
}

// Normalize folds s for keyword comparison: diacritics removed, lower case,
// surrounding space trimmed.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Tokens splits the normalized transcript on non-letter boundaries.
func Tokens(transcript string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(Normalize(transcript), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		set[tok] = struct{}{}
	}
	return set
}

// MatchKeywords reports, for each distinct normalized keyword, whether it
// appears as a whole token of the transcript. Blank keywords are dropped.
func MatchKeywords(keywords []string, transcript string) []KeywordHit {
	tokens := Tokens(transcript)
	seen := make(map[string]bool, len(keywords))
	hits := make([]KeywordHit, 0, len(keywords))
	for _, kw := range keywords {
		n := Normalize(kw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		_, ok := tokens[n]
		hits = append(hits, KeywordHit{Keyword: n, Matched: ok})
	}
	return hits
}

// MatchedCount counts matched keywords.
func MatchedCount(hits []KeywordHit) int {
	n := 0
	for _, h := range hits {
		if h.Matched {
			n++
		}
	}
	return n
}
