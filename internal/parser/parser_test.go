package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

func TestParseReference_IEEEStyle(t *testing.T) {
	p := NewParser()
	seg := `J. Smith and A. Jones, "Deep Learning for Natural Language Processing," in Proc. ACL, 2023.`
	ref, reason, ok := p.ParseReference(seg, nil)
	require.True(t, ok, "reason: %s", reason)
	assert.Equal(t, "Deep Learning for Natural Language Processing", ref.Title)
	assert.Equal(t, []string{"J. Smith", "A. Jones"}, ref.Authors)
}

func TestParseReference_EmDashContinuation(t *testing.T) {
	p := NewParser()
	seg := `———, "Another Paper About Scaling Laws," in Proc. NeurIPS, 2022.`
	ref, reason, ok := p.ParseReference(seg, []string{"J. Smith", "A. Jones"})
	require.True(t, ok, "reason: %s", reason)
	assert.Equal(t, "Another Paper About Scaling Laws", ref.Title)
	assert.Equal(t, []string{"J. Smith", "A. Jones"}, ref.Authors)
}

func TestParseReference_EmDashWithoutPrevious_Skipped(t *testing.T) {
	p := NewParser()
	seg := `———, "Another Paper About Scaling Laws," in Proc. NeurIPS, 2022.`
	_, _, ok := p.ParseReference(seg, nil)
	assert.False(t, ok)
}

func TestParseReference_ACMStyle(t *testing.T) {
	p := NewParser()
	seg := `Maria Garcia and Carlos Rodriguez. 2022. Neural Networks for Image Recognition. In CHI.`
	ref, reason, ok := p.ParseReference(seg, nil)
	require.True(t, ok, "reason: %s", reason)
	assert.Equal(t, "Neural Networks for Image Recognition", ref.Title)
	assert.Equal(t, []string{"Maria Garcia", "Carlos Rodriguez"}, ref.Authors)
}

func TestParseReference_ShortTitleSkipped(t *testing.T) {
	p := NewParser()
	seg := `J. Smith, "Tiny," in Proc. ACL, 2023.`
	_, reason, ok := p.ParseReference(seg, nil)
	assert.False(t, ok)
	assert.Equal(t, domain.SkipShortTitle, reason)
}

func TestParseReference_URLOnlyNonAcademicHostSkipped(t *testing.T) {
	p := NewParser()
	seg := `See https://github.com/example/repo for details.`
	_, reason, ok := p.ParseReference(seg, nil)
	assert.False(t, ok)
	assert.Equal(t, domain.SkipURLOnly, reason)
}

func TestParseReference_DOIURLNotSkipped(t *testing.T) {
	p := NewParser()
	seg := `J. Smith, "Deep Learning for Natural Language Understanding," https://doi.org/10.1145/123456.789012`
	ref, reason, ok := p.ParseReference(seg, nil)
	require.True(t, ok, "reason: %s", reason)
	assert.Equal(t, "10.1145/123456.789012", ref.DOI)
}

func TestParseReference_ExtractsArxivID(t *testing.T) {
	p := NewParser()
	seg := `A. Vaswani et al., "Attention Is All You Need," arXiv:1706.03762, 2017.`
	ref, reason, ok := p.ParseReference(seg, nil)
	require.True(t, ok, "reason: %s", reason)
	assert.Equal(t, "1706.03762", ref.ArxivID)
}

func TestParseReference_Idempotent(t *testing.T) {
	p := NewParser()
	seg := `J. Smith and A. Jones, "Deep Learning for Natural Language Processing," in Proc. ACL, 2023.`
	ref, _, ok := p.ParseReference(seg, nil)
	require.True(t, ok)
	ref2, _, ok2 := p.ParseReference(ref.RawCitation, nil)
	require.True(t, ok2)
	assert.Equal(t, ref.Title, ref2.Title)
	assert.Equal(t, ref.Authors, ref2.Authors)
}
