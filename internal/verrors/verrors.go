// Package verrors defines the closed set of error kinds the extraction and
// validation pipeline distinguishes (spec.md §7), as typed sentinels rather
// than stringly-typed categories: one exported error value per case plus
// errors.Is/errors.As-friendly wrapping.
package verrors

import "errors"

// Sentinel kinds, wrapped around the failing operation's context via
// fmt.Errorf("...: %w", ErrX) at the call site. Only ErrConfig and
// ErrInputFormat are returned anywhere today; adapter failures and
// cancellation are reported through validator.AdapterOutcome kinds and the
// result list instead of through the remaining sentinels.
var (
	// ErrInputFormat marks malformed PDF/text input or a missing
	// bibliography section. The one hard failure is pdftext.ErrNotAPDF,
	// which wraps it for input without the PDF magic header. Malformed text
	// is not propagated: the locator falls back, the parser skips the
	// offending segment, and the occurrence is tallied in SkipStats instead.
	ErrInputFormat = errors.New("verrors: malformed input")

	// ErrAdapterTimeout marks a per-call deadline exceeded inside an
	// adapter's Query.
	ErrAdapterTimeout = errors.New("verrors: adapter timeout")

	// ErrAdapterRateLimited marks an HTTP 429 or host-policy throttle
	// that exhausted max_rate_limit_retries.
	ErrAdapterRateLimited = errors.New("verrors: adapter rate limited")

	// ErrAdapterError marks a 5xx, DNS failure, or malformed
	// JSON/Atom/HTML response from an adapter.
	ErrAdapterError = errors.New("verrors: adapter error")

	// ErrCancelled marks a Check or retry pass that observed the cancel
	// flag mid-run.
	ErrCancelled = errors.New("verrors: cancelled")

	// ErrConfig marks a bad regex, bad offline-dump path, or other
	// construction-time misconfiguration. Raised only when building a
	// PdfExtractor or Validator, never during check.
	ErrConfig = errors.New("verrors: invalid configuration")
)
