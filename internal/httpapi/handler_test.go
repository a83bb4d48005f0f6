package httpapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/adminauth"
	"github.com/weinshel/hallucinator-sub000/internal/archive"
	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/extractor"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

const sampleDoc = `%PDF-1.4
Introduction text about the paper.

REFERENCES

[1] J. Smith and A. Jones, "Deep Learning for Natural Language Processing," in Proc. ACL, 2023.

Appendix
`

const noRefsDoc = "%PDF-1.4\nJust some text with no bibliography at all.\n"

// fakeAdapter always reports a hit, letting tests exercise the full
// Analyze/AnalyzeStream plumbing without any real network adapter.
type fakeAdapter struct{}

func (fakeAdapter) Name() string                    { return "fake" }
func (fakeAdapter) RateLimitGroup() string          { return "fake" }
func (fakeAdapter) PreFilter(domain.Reference) bool { return true }
func (fakeAdapter) Query(ctx context.Context, ref domain.Reference, deadline time.Time) validator.AdapterOutcome {
	return validator.AdapterOutcome{
		Kind:         validator.OutcomeHit,
		FoundTitle:   ref.Title,
		FoundAuthors: ref.Authors,
	}
}

func testHandler() *Handler {
	cfg := domain.DefaultValidatorConfig()
	cfg.NumWorkers = 2
	cfg.DbTimeout = time.Second
	cfg.DbTimeoutShort = 500 * time.Millisecond
	return New(
		extractor.New(),
		[]validator.Adapter{fakeAdapter{}},
		ratelimit.NewRegistry(),
		nil,
		nil,
		nil,
		cfg,
		archive.Limits{MaxFiles: 50, MaxExtractedBytes: 10 << 20},
		nil,
		nil,
		"",
		zerolog.Nop(),
	)
}

func multipartPDF(t *testing.T, filename, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("pdf", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAnalyze_NoFileProvided(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	h.Analyze(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_SinglePDF_NoReferencesFound(t *testing.T) {
	h := testHandler()
	req := multipartPDF(t, "paper.pdf", noRefsDoc)
	w := httptest.NewRecorder()
	h.Analyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	s := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(0), s["total"])
}

func TestAnalyze_SinglePDF_VerifiedReference(t *testing.T) {
	h := testHandler()
	req := multipartPDF(t, "paper.pdf", sampleDoc)
	w := httptest.NewRecorder()
	h.Analyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "verified", first["status"])
}

func TestAnalyze_Archive_MultipleFiles(t *testing.T) {
	h := testHandler()

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	f1, err := zw.Create("a.pdf")
	require.NoError(t, err)
	_, err = f1.Write([]byte(sampleDoc))
	require.NoError(t, err)
	f2, err := zw.Create("b.pdf")
	require.NoError(t, err)
	_, err = f2.Write([]byte(noRefsDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdf", "bundle.zip")
	require.NoError(t, err)
	_, err = part.Write(zbuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Analyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["file_count"])
}

func TestRequestConfig_DisabledDbsOverride(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	req.Form = map[string][]string{"disabled_dbs": {`["crossref","arxiv"]`}}
	cfg := h.requestConfig(req)
	assert.True(t, cfg.DisabledDbs["crossref"])
	assert.True(t, cfg.DisabledDbs["arxiv"])
	assert.False(t, cfg.DisabledDbs["openalex"])
}

func TestAdminRoutes_DisabledWithoutPasswordHash(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"password":"x"}`))
	w := httptest.NewRecorder()
	h.AdminLogin(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLogin_ThenReload(t *testing.T) {
	h := testHandler()
	hash, err := adminauth.HashPassword("correct-horse")
	require.NoError(t, err)
	h.Admin = adminauth.New(hash, "test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(`{"password":"correct-horse"}`))
	w := httptest.NewRecorder()
	h.AdminLogin(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp adminLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	called := false
	guarded := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	reloadReq := httptest.NewRequest(http.MethodPost, "/admin/watchlist/reload", nil)
	reloadReq.Header.Set("Authorization", "Bearer "+resp.Token)
	reloadW := httptest.NewRecorder()
	guarded.ServeHTTP(reloadW, reloadReq)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, reloadW.Code)
}

func TestRequireAdmin_RejectsMissingHeader(t *testing.T) {
	h := testHandler()
	hash, err := adminauth.HashPassword("pw")
	require.NoError(t, err)
	h.Admin = adminauth.New(hash, "secret", time.Hour)

	guarded := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))
	req := httptest.NewRequest(http.MethodPost, "/admin/watchlist/reload", nil)
	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
