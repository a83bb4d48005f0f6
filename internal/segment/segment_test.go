package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_IEEE(t *testing.T) {
	text := "\n[1] J. Smith, \"Title One,\" 2020.\n[2] A. Jones, \"Title Two,\" 2021.\n[3] B. Lee, \"Title Three,\" 2022.\n"
	s := NewSegmenter()
	segs := s.Segment(text)
	require.Len(t, segs, 3)
	assert.Contains(t, segs[0], "Title One")
	assert.Contains(t, segs[2], "Title Three")
}

func TestSegment_Numbered(t *testing.T) {
	text := "\n1. J. Smith, Title One. 2020.\n2. A. Jones, Title Two. 2021.\n3. B. Lee, Title Three. 2022.\n"
	s := NewSegmenter()
	segs := s.Segment(text)
	require.Len(t, segs, 3)
}

func TestSegment_FallsThroughWithOnlyTwoIEEEItems(t *testing.T) {
	text := "\n[1] J. Smith, \"Title One,\" 2020.\n[2] A. Jones, \"Title Two,\" 2021.\n\nParagraph fallback entry number one that is long enough to count.\n\nParagraph fallback entry number two that is long enough to count.\n\nParagraph fallback entry number three that is long enough to count.\n"
	s := NewSegmenter()
	segs := s.Segment(text)
	// Only 2 IEEE items -> falls through to numbered (no match) -> AAAI (no
	// match) -> paragraph fallback.
	assert.GreaterOrEqual(t, len(segs), 3)
}

func TestSegment_CustomStrategyWins(t *testing.T) {
	s := NewSegmenter()
	s.Use(func(text string) ([]string, bool) {
		return []string{"a", "b", "c"}, true
	})
	segs := s.Segment("anything")
	assert.Equal(t, []string{"a", "b", "c"}, segs)
}

func TestSegment_ParagraphFallback_DropsShortSegments(t *testing.T) {
	text := "too short\n\nThis paragraph is long enough to be kept as a segment for sure.\n\nshort\n\nAnother long enough paragraph segment right here for testing purposes.\n\nyes\n\nA third sufficiently long paragraph to complete the fallback segmentation test."
	s := NewSegmenter()
	segs := s.Segment(text)
	for _, seg := range segs {
		assert.GreaterOrEqual(t, len(seg), 20)
	}
}
