package httpapi

import (
	"context"
	"net/http"

	"github.com/weinshel/hallucinator-sub000/internal/archive"
	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
)

// validatorChecker is the subset of *validator.Validator this package
// calls, narrowed for readability at the call sites below.
type validatorChecker interface {
	Check(ctx context.Context, refs []domain.Reference, progress validator.ProgressFunc) []domain.ValidationResult
}

// Analyze handles POST /analyze: a synchronous, non-streaming upload
// (single PDF or archive of PDFs), mirroring app-rs.py's /analyze route.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	up, err := parseUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := up.files(h.ArchiveLimits)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultAnalyzeTimeout)
	defer cancel()

	cfg := h.requestConfig(r)
	v := h.buildValidator(cfg)

	if len(files) == 1 && up.Kind == archive.KindPDF {
		extraction, results, err := h.runOne(ctx, v, files[0].Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s := buildSummary(extraction.Stats, results)
		h.persist(ctx, up.Filename, results, domain.Stats(results, s.Skipped))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"summary": s,
			"results": toResultViews(results),
		})
		return
	}

	var fileResults []fileResult
	var allResults []domain.ValidationResult
	agg := summary{}
	for _, f := range files {
		extraction, results, err := h.runOne(ctx, v, f.Data)
		if err != nil {
			fileResults = append(fileResults, fileResult{Filename: f.Name, Success: false, Error: err.Error()})
			continue
		}
		s := buildSummary(extraction.Stats, results)
		addSummary(&agg, s)
		allResults = append(allResults, results...)
		fileResults = append(fileResults, fileResult{
			Filename: f.Name,
			Success:  true,
			Summary:  &s,
			Results:  toResultViews(results),
		})
	}

	h.persist(ctx, up.Filename, allResults, domain.Stats(allResults, agg.Skipped))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"file_count": len(files),
		"files":      fileResults,
		"summary":    agg,
		"results":    toResultViews(allResults),
	})
}

// runOne extracts references from pdfBytes and validates them, returning
// the extraction stats alongside the validation results.
func (h *Handler) runOne(ctx context.Context, v validatorChecker, pdfBytes []byte) (domain.ExtractionResult, []domain.ValidationResult, error) {
	extraction, err := h.Extractor.Extract(pdfBytes)
	if err != nil {
		return domain.ExtractionResult{}, nil, err
	}
	if len(extraction.References) == 0 {
		return extraction, nil, nil
	}
	results := v.Check(ctx, extraction.References, nil)
	return extraction, results, nil
}

func (h *Handler) persist(ctx context.Context, filename string, results []domain.ValidationResult, stats domain.CheckStats) {
	if h.Store == nil {
		return
	}
	if _, err := h.Store.Save(ctx, filename, results, stats); err != nil {
		h.Log.Warn().Err(err).Msg("failed to persist validation batch")
	}
}
