package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cafe", Normalize("  Café "))
	assert.Equal(t, "nino", Normalize("NIÑO"))
	assert.Equal(t, "uber", Normalize("über"))
	assert.Equal(t, "", Normalize("   "))
}

func TestMatchKeywords_DiacriticInsensitive(t *testing.T) {
	hits := MatchKeywords([]string{"café"}, "I went to the CAFE yesterday")
	assert.Equal(t, []KeywordHit{{Keyword: "cafe", Matched: true}}, hits)
}

func TestMatchKeywords_WholeTokensOnly(t *testing.T) {
	hits := MatchKeywords([]string{"cat", "at"}, "concatenate the category")
	assert.Equal(t, []KeywordHit{{Keyword: "cat", Matched: false}, {Keyword: "at", Matched: false}}, hits)
}

func TestMatchKeywords_SplitsOnNonLetters(t *testing.T) {
	hits := MatchKeywords([]string{"travel", "plans"}, "travel-plans,2024!")
	assert.Equal(t, 2, MatchedCount(hits))
}

func TestMatchKeywords_DropsBlankAndDuplicates(t *testing.T) {
	hits := MatchKeywords([]string{"", "  ", "Go", "go", "GÖ"}, "go")
	assert.Equal(t, []KeywordHit{{Keyword: "go", Matched: true}}, hits)
}

func TestMatchKeywords_EmptyTranscript(t *testing.T) {
	hits := MatchKeywords([]string{"hello"}, "")
	assert.Equal(t, []KeywordHit{{Keyword: "hello", Matched: false}}, hits)
	assert.Zero(t, MatchedCount(hits))
}
