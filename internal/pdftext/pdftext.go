// Package pdftext is the PDF-bytes-to-UTF-8-text boundary: raw PDF parsing
// is explicitly out of the core's scope (spec.md §1) and is treated as an
// opaque byte -> string function injected into the extractor.
package pdftext

import (
	"bytes"
	"fmt"

	"github.com/weinshel/hallucinator-sub000/internal/verrors"
)

// ErrNotAPDF is returned when the input does not look like a PDF (missing
// the "%PDF-" magic header); it wraps verrors.ErrInputFormat (spec.md §7).
var ErrNotAPDF = fmt.Errorf("pdftext: input does not start with %%PDF- magic: %w", verrors.ErrInputFormat)

// Extractor turns raw PDF bytes into plain UTF-8 text. A real deployment
// wires in a proper PDF text-layer extraction library; this interface keeps
// that dependency outside the core pipeline.
type Extractor interface {
	ExtractText(pdfBytes []byte) (string, error)
}

// TaggedText is a minimal Extractor used for tests and as a degenerate
// fallback: it strips the PDF magic header if present and returns the
// remaining bytes as text verbatim. It does not parse real PDF content
// streams — production deployments must supply a real Extractor.
type TaggedText struct{}

func (TaggedText) ExtractText(pdfBytes []byte) (string, error) {
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF-")) {
		return "", ErrNotAPDF
	}
	nl := bytes.IndexByte(pdfBytes, '\n')
	if nl < 0 {
		return "", nil
	}
	return string(pdfBytes[nl+1:]), nil
}
