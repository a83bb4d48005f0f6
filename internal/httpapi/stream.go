package httpapi

import (
	"context"
	"net/http"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
)

// AnalyzeStream handles POST /analyze/stream: the SSE variant of Analyze,
// emitting app-rs.py's full event vocabulary (archive_start, file_start,
// extraction_complete, checking, result, retry_pass, warning, file_complete,
// complete) as the batch progresses instead of returning one JSON blob at
// the end.
func (h *Handler) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
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

	sse, ok := newSSEWriter(w)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaultAnalyzeTimeout)
	defer cancel()

	cfg := h.requestConfig(r)
	v := h.buildValidator(cfg)
	go func() {
		<-ctx.Done()
		v.Cancel()
	}()

	isArchive := len(files) > 1
	if isArchive {
		sse.emit("archive_start", map[string]int{"file_count": len(files)})
	}

	var allResults []domain.ValidationResult
	var fileResults []fileResult
	agg := summary{}

	for idx, f := range files {
		sse.emit("file_start", map[string]interface{}{
			"file_index": idx,
			"file_count": len(files),
			"filename":   f.Name,
		})

		extraction, err := h.Extractor.Extract(f.Data)
		if err != nil {
			sse.emit("warning", map[string]interface{}{
				"file_index": idx,
				"filename":   f.Name,
				"message":    err.Error(),
			})
			fr := fileResult{Filename: f.Name, Success: false, Error: err.Error()}
			fileResults = append(fileResults, fr)
			sse.emit("file_complete", fr)
			continue
		}

		sse.emit("extraction_complete", map[string]interface{}{
			"total_refs": len(extraction.References),
			"skip_stats": extraction.Stats,
		})

		var results []domain.ValidationResult
		if len(extraction.References) > 0 {
			results = v.Check(ctx, extraction.References, h.progressToSSE(sse, idx, len(files)))
		}

		s := buildSummary(extraction.Stats, results)
		addSummary(&agg, s)
		allResults = append(allResults, results...)

		fr := fileResult{Filename: f.Name, Success: true, Summary: &s, Results: toResultViews(results)}
		fileResults = append(fileResults, fr)
		sse.emit("file_complete", fr)
	}

	h.persist(ctx, up.Filename, allResults, domain.Stats(allResults, agg.Skipped))

	complete := map[string]interface{}{
		"summary": agg,
		"results": toResultViews(allResults),
	}
	if isArchive {
		complete["file_count"] = len(files)
		complete["files"] = fileResults
	}
	sse.emit("complete", complete)
}

// progressToSSE translates validator.ProgressEvent values into the SSE
// event vocabulary app-rs.py's rust_progress_callback emits.
func (h *Handler) progressToSSE(sse *sseWriter, fileIdx, fileCount int) validator.ProgressFunc {
	return func(ev validator.ProgressEvent) {
		switch ev.Name {
		case validator.EventChecking:
			sse.emit("checking", map[string]interface{}{
				"index": ev.Index,
				"total": ev.Total,
				"title": ev.Title,
			})
		case validator.EventResult:
			if ev.Result == nil {
				return
			}
			sse.emit("result", resultEvent{
				resultView: toResultView(*ev.Result),
				Index:      ev.Index,
				Total:      ev.Total,
				FileIndex:  fileIdx,
				FileCount:  fileCount,
			})
		case validator.EventRetryPass:
			sse.emit("retry_pass", map[string]interface{}{"count": ev.RetryCount})
		}
	}
}

// resultEvent flattens a resultView with its batch position, matching
// app-rs.py's result_dict with "index"/"total" merged in.
type resultEvent struct {
	resultView
	Index     int `json:"index"`
	Total     int `json:"total"`
	FileIndex int `json:"file_index"`
	FileCount int `json:"file_count"`
}
