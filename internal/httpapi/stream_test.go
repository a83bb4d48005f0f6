package httpapi

import (
	"archive/zip"
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failOnBadPDFText errors for one magic marker so a test can force an
// extraction failure on an otherwise-valid PDF entry (archive.IsValidPDF
// only checks the %PDF- header, so a corrupt-content PDF can still pass
// archive ingest and fail later, at the opaque text-extraction boundary).
type failOnBadPDFText struct{}

func (failOnBadPDFText) ExtractText(pdfBytes []byte) (string, error) {
	if bytes.Contains(pdfBytes, []byte("CORRUPT-CONTENT-STREAM")) {
		return "", errors.New("simulated malformed content stream")
	}
	nl := bytes.IndexByte(pdfBytes, '\n')
	if nl < 0 {
		return "", nil
	}
	return string(pdfBytes[nl+1:]), nil
}

func TestAnalyzeStream_SinglePDF_EmitsEventVocabulary(t *testing.T) {
	h := testHandler()
	req := multipartPDF(t, "paper.pdf", sampleDoc)
	w := httptest.NewRecorder()
	h.AnalyzeStream(w, req)

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: extraction_complete")
	assert.Contains(t, body, "event: checking")
	assert.Contains(t, body, "event: result")
	assert.Contains(t, body, "event: complete")
	assert.NotContains(t, body, "event: archive_start")
}

func TestAnalyzeStream_Archive_EmitsArchiveAndWarningEvents(t *testing.T) {
	h := testHandler()
	h.Extractor.PDFText = failOnBadPDFText{}

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	good, err := zw.Create("good.pdf")
	require.NoError(t, err)
	_, err = good.Write([]byte(sampleDoc))
	require.NoError(t, err)
	bad, err := zw.Create("bad.pdf")
	require.NoError(t, err)
	_, err = bad.Write([]byte("%PDF-1.4\nCORRUPT-CONTENT-STREAM\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdf", "bundle.zip")
	require.NoError(t, err)
	_, err = part.Write(zbuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze/stream", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.AnalyzeStream(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event: archive_start")
	assert.Contains(t, body, "event: warning")
	assert.True(t, strings.Count(body, "event: file_complete") >= 2)
	assert.Contains(t, body, "event: complete")
}
