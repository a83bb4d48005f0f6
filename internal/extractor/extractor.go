// Package extractor composes the normalizer, locator, segmenter and parser
// (L1-L4) into the PdfExtractor API (spec.md §6).
package extractor

import (
	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/parser"
	"github.com/weinshel/hallucinator-sub000/internal/pdftext"
	"github.com/weinshel/hallucinator-sub000/internal/section"
	"github.com/weinshel/hallucinator-sub000/internal/segment"
)

// PdfExtractor is the configurable façade over L1-L4. Mutable fields mirror
// spec.md §6: section regexes (via Locator), segment strategies (via
// Segmenter), and parser knobs (via Parser).
type PdfExtractor struct {
	Locator   *section.Locator
	Segmenter *segment.Segmenter
	Parser    *parser.Parser
	PDFText   pdftext.Extractor
}

// New returns a PdfExtractor configured with spec.md's defaults.
func New() *PdfExtractor {
	return &PdfExtractor{
		Locator:   section.NewLocator(),
		Segmenter: segment.NewSegmenter(),
		Parser:    parser.NewParser(),
		PDFText:   pdftext.TaggedText{},
	}
}

// FindSection locates the bibliography region of raw document text.
func (e *PdfExtractor) FindSection(text string) string {
	return e.Locator.Find(text)
}

// Segment splits a bibliography region into per-entry strings.
func (e *PdfExtractor) Segment(text string) []string {
	return e.Segmenter.Segment(text)
}

// ParseReference parses one segment into a Reference or a skip reason.
func (e *PdfExtractor) ParseReference(text string, prevAuthors []string) (domain.Reference, domain.SkipReason, bool) {
	return e.Parser.ParseReference(text, prevAuthors)
}

// ExtractFromText runs the full L1-L4 pipeline over already-decoded
// document text: locate the section, segment it, and parse every segment,
// carrying previous_authors across em-dash continuations (spec.md §3, §4.4).
func (e *PdfExtractor) ExtractFromText(text string) domain.ExtractionResult {
	biblio := e.FindSection(text)
	segments := e.Segment(biblio)

	result := domain.ExtractionResult{
		Stats: domain.SkipStats{TotalRaw: len(segments)},
	}

	var prevAuthors []string
	for _, seg := range segments {
		ref, reason, ok := e.Parser.ParseReference(seg, prevAuthors)
		if !ok {
			switch reason {
			case domain.SkipURLOnly:
				result.Stats.URLOnly++
			case domain.SkipShortTitle:
				result.Stats.ShortTitle++
			case domain.SkipNoTitle:
				result.Stats.NoTitle++
			case domain.SkipNoAuthors:
				result.Stats.NoAuthors++
			}
			continue
		}
		result.References = append(result.References, ref)
		if len(ref.Authors) > 0 {
			prevAuthors = ref.Authors
		}
	}
	return result
}

// Extract runs PDFText.ExtractText over raw PDF bytes and then
// ExtractFromText over the result.
func (e *PdfExtractor) Extract(pdfBytes []byte) (domain.ExtractionResult, error) {
	text, err := e.PDFText.ExtractText(pdfBytes)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	return e.ExtractFromText(text), nil
}
