// Package validator implements the concurrent validation stage (L5,
// spec.md §4.5, §5): fan-out to database adapters, fusion, retry, rate
// limiting, cancellation and progress events.
package validator

import (
	"context"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// OutcomeKind tags an AdapterOutcome (spec.md §4.5).
type OutcomeKind int

const (
	OutcomeHit OutcomeKind = iota
	OutcomeMiss
	OutcomeTimeout
	OutcomeError
	OutcomeRateLimited
	OutcomeSkipped
)

// ErrorKind categorizes AdapterError outcomes (spec.md §7).
type ErrorKind string

const (
	ErrNetwork ErrorKind = "network"
	ErrDecode  ErrorKind = "decode"
	ErrHTTP    ErrorKind = "http"
)

// AdapterOutcome is the result of one adapter query for one reference
// (spec.md §4.5).
type AdapterOutcome struct {
	Kind         OutcomeKind
	FoundTitle   string
	FoundAuthors []string
	URL          string
	ErrorKind    ErrorKind
	RetryAfter   time.Duration // set when Kind == OutcomeRateLimited and the host sent Retry-After
}

// Adapter is the capability set every database adapter satisfies (spec.md
// §9): a name, a rate-limit group, an advisory pre-filter, and the single
// query operation.
type Adapter interface {
	Name() string
	RateLimitGroup() string
	PreFilter(ref domain.Reference) bool
	Query(ctx context.Context, ref domain.Reference, deadline time.Time) AdapterOutcome
}
