package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandLigatures(t *testing.T) {
	in := "The eﬀect of diﬃcult efﬁcient inference"
	got := ExpandLigatures(in)
	assert.Equal(t, "The effect of difficult efficient inference", got)
}

func TestFixHyphenation_Compound(t *testing.T) {
	got := FixHyphenation("a human-\ncentered approach", nil)
	assert.Equal(t, "a human-centered approach", got)
}

func TestFixHyphenation_BrokenWord(t *testing.T) {
	got := FixHyphenation("a detec-\ntion method", nil)
	assert.Equal(t, "a detection method", got)
}

func TestFingerprint_StableAcrossVariants(t *testing.T) {
	base := Fingerprint("Attention Is All You Need")
	withEntity := Fingerprint("Attention &amp; Is All You Need")
	withCase := Fingerprint("ATTENTION IS ALL YOU NEED")
	diacritic := Fingerprint("Attention Is All Yoü Need")

	require.NotEmpty(t, base)
	assert.Equal(t, base, withCase)
	assert.Equal(t, "attentionisallyouneed", diacritic)
	assert.Contains(t, withEntity, "attention")
}

func TestRatio_Identical(t *testing.T) {
	assert.Equal(t, float64(100), Ratio("abc", "abc"))
}

func TestRatio_Empty(t *testing.T) {
	assert.Equal(t, float64(100), Ratio("", ""))
}

func TestTitlesMatch(t *testing.T) {
	assert.True(t, TitlesMatch("Deep Learning for NLP", "Deep Learning for NLP"))
	assert.False(t, TitlesMatch("Deep Learning for NLP", "Completely Unrelated Title About Gardening"))
}

func TestQueryWords_DropsStopWordsAndShortTokens(t *testing.T) {
	got := QueryWords("The Attention Is All You Need For NLP", 6)
	assert.NotContains(t, got, "The")
	assert.NotContains(t, got, "For")
	assert.Contains(t, got, "Attention")
}

func TestQueryWords_FallsBackWhenTooFewSignificant(t *testing.T) {
	got := QueryWords("a of in", 6)
	assert.Equal(t, []string{"a", "of", "in"}, got)
}
