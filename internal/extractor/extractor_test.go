package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `Introduction text about the paper.

REFERENCES

[1] J. Smith and A. Jones, "Deep Learning for Natural Language Processing," in Proc. ACL, 2023.
[2] Maria Garcia and Carlos Rodriguez, "Neural Networks for Image Recognition," in Proc. CVPR, 2022.
[3] B. Lee, "Transformers for Everything Imaginable," in Proc. NeurIPS, 2021.
[4] See https://github.com/example/repo for details.

Appendix

Unrelated appendix content.
`

func TestExtractFromText_EndToEnd(t *testing.T) {
	e := New()
	result := e.ExtractFromText(sampleDoc)

	require.Equal(t, 4, result.Stats.TotalRaw)
	require.Len(t, result.References, 3)
	assert.Equal(t, 1, result.Stats.URLOnly)
	assert.Equal(t, "Deep Learning for Natural Language Processing", result.References[0].Title)
	assert.Equal(t, []string{"J. Smith", "A. Jones"}, result.References[0].Authors)
}

func TestExtractFromText_SkipCountsNeverExceedGap(t *testing.T) {
	e := New()
	result := e.ExtractFromText(sampleDoc)
	skipped := result.Stats.URLOnly + result.Stats.ShortTitle + result.Stats.NoTitle + result.Stats.NoAuthors
	assert.LessOrEqual(t, skipped, result.Stats.TotalRaw-len(result.References))
}

func TestExtractFromText_EmptyDocument(t *testing.T) {
	e := New()
	result := e.ExtractFromText("")
	assert.Empty(t, result.References)
}
