package validator

import (
	"sync"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// EventName is one of the progress event kinds spec.md §4.5/§6 names.
type EventName string

const (
	EventChecking  EventName = "checking"
	EventResult    EventName = "result"
	EventRetryPass EventName = "retry_pass"
	EventDbUpdate  EventName = "db_update"
)

// ProgressEvent is one message emitted on the caller-supplied callback.
// Emission order is preserved per reference: checking -> (db_update*) ->
// result (spec.md §4.5).
type ProgressEvent struct {
	Name  EventName
	Index int
	Total int
	Title string
	Result *domain.ValidationResult
	RetryCount int
	DbName string
	DbStatus domain.DbStatus
}

// ProgressFunc receives ProgressEvent values. May be nil.
type ProgressFunc func(ProgressEvent)

// serializedProgress wraps a ProgressFunc so that invocations are
// serialized under an internal mutex: the callback itself need not be
// re-entrant (spec.md §4.5, §5).
type serializedProgress struct {
	mu sync.Mutex
	fn ProgressFunc
}

func newSerializedProgress(fn ProgressFunc) *serializedProgress {
	return &serializedProgress{fn: fn}
}

func (p *serializedProgress) emit(ev ProgressEvent) {
	if p == nil || p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn(ev)
}
