package validator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/retraction"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

// Validator is the actor-like owner of the worker pool, rate limiters,
// cancel flag, and adapter set (spec.md §9). Outside code sees only Check,
// Cancel, ReloadWatchlist, and the package-level Stats helper in
// internal/domain.
type Validator struct {
	cfg      domain.ValidatorConfig
	adapters []Adapter // priority order: fusion ties break toward earlier entries
	limiter  *ratelimit.Registry
	gate     *retractionGate
	doi      DOIResolver

	cancelled atomic.Bool
}

// New builds a Validator. adapters' slice order is also the fusion priority
// order (spec.md §4.5 step 2/3: "first such adapter by priority"). doi and
// crossref may be nil if no DOI-resolution/retraction-flag source is wired.
func New(cfg domain.ValidatorConfig, adapters []Adapter, limiter *ratelimit.Registry, doi DOIResolver, crossrefRetractions RetractionSource, watchlist *retraction.Watchlist) *Validator {
	if limiter == nil {
		limiter = ratelimit.NewRegistry()
	}
	return &Validator{
		cfg:      cfg,
		adapters: adapters,
		limiter:  limiter,
		gate:     &retractionGate{crossref: crossrefRetractions, watchlist: watchlist},
		doi:      doi,
	}
}

// Cancel requests that any in-flight or future Check call stop as soon as
// possible (spec.md §4.5, §7).
func (v *Validator) Cancel() {
	v.cancelled.Store(true)
}

// ReloadWatchlist atomically swaps the local retraction watchlist consulted
// alongside CrossRef (SPEC_FULL.md §11), safe to call while Check is running
// in another goroutine.
func (v *Validator) ReloadWatchlist(w *retraction.Watchlist) {
	v.gate.setWatchlist(w)
}

func (v *Validator) isCancelled() bool {
	return v.cancelled.Load()
}

// Check validates refs, returning one ValidationResult per reference in
// input order. On cancellation it returns a prefix-preserving subsequence
// of what a full run would have produced (spec.md §4.5, §8 law 4).
func (v *Validator) Check(ctx context.Context, refs []domain.Reference, progress ProgressFunc) []domain.ValidationResult {
	pf := newSerializedProgress(progress)
	n := len(refs)
	results := make([]domain.ValidationResult, n)
	outcomeSets := make([][]dbOutcome, n)
	done := make([]bool, n)

	workers := v.cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range refs {
		i := i
		if v.isCancelled() {
			break
		}
		g.Go(func() error {
			if v.isCancelled() {
				return nil
			}
			ref := refs[i]
			pf.emit(ProgressEvent{Name: EventChecking, Index: i, Total: n, Title: ref.Title})
			result, outcomes := v.processReference(gctx, ref, v.adapters, v.cfg.DbTimeout, pf, n)
			results[i] = result
			outcomeSets[i] = outcomes
			done[i] = true
			r := result
			pf.emit(ProgressEvent{Name: EventResult, Index: i, Total: n, Title: ref.Title, Result: &r})
			return nil
		})
	}
	_ = g.Wait()

	if !v.isCancelled() {
		v.retryPass(ctx, refs, results, outcomeSets, done, pf, n)
	}

	cut := n
	for i := 0; i < n; i++ {
		if !done[i] {
			cut = i
			break
		}
	}
	return results[:cut]
}

// retryPass re-queries, once, only the adapters that failed for each
// still-not_found reference, using the short timeout (spec.md §4.5
// "Retry pass").
func (v *Validator) retryPass(ctx context.Context, refs []domain.Reference, results []domain.ValidationResult, outcomeSets [][]dbOutcome, done []bool, pf *serializedProgress, n int) {
	var retryIdx []int
	for i := 0; i < n; i++ {
		if done[i] && results[i].Status == domain.StatusNotFound && len(results[i].FailedDbs) > 0 {
			retryIdx = append(retryIdx, i)
		}
	}
	if len(retryIdx) == 0 {
		return
	}
	pf.emit(ProgressEvent{Name: EventRetryPass, RetryCount: len(retryIdx)})

	workers := v.cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, idx := range retryIdx {
		i := idx
		if v.isCancelled() {
			break
		}
		g.Go(func() error {
			if v.isCancelled() {
				return nil
			}
			failedAdapters := adaptersByName(v.adapters, results[i].FailedDbs)
			_, retryOutcomes := v.processReference(gctx, refs[i], failedAdapters, v.cfg.DbTimeoutShort, nil, n)

			combined := keepNonFailed(outcomeSets[i])
			combined = append(combined, retryOutcomes...)
			merged := fuse(refs[i], combined, v.cfg)
			merged.DoiInfo = results[i].DoiInfo
			merged.ArxivInfo = results[i].ArxivInfo
			if results[i].RetractionInfo != nil {
				merged.RetractionInfo = results[i].RetractionInfo
				merged.Status = domain.StatusRetracted
			}
			results[i] = merged
			r := merged
			pf.emit(ProgressEvent{Name: EventResult, Index: i, Total: n, Title: refs[i].Title, Result: &r})
			return nil
		})
	}
	_ = g.Wait()
}

func keepNonFailed(outcomes []dbOutcome) []dbOutcome {
	var kept []dbOutcome
	for _, o := range outcomes {
		switch o.outcome.Kind {
		case OutcomeTimeout, OutcomeError, OutcomeRateLimited:
			continue
		default:
			kept = append(kept, o)
		}
	}
	return kept
}

func adaptersByName(adapters []Adapter, names []string) []Adapter {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Adapter
	for _, a := range adapters {
		if want[a.Name()] {
			out = append(out, a)
		}
	}
	return out
}

// processReference queries every enabled, pre-filter-passing adapter for
// ref in parallel, each under its own rate limiter and deadline (spec.md
// §4.5 "Scheduling"), then fuses the outcomes into a ValidationResult, DOI
// resolution and retraction check included.
func (v *Validator) processReference(ctx context.Context, ref domain.Reference, adapters []Adapter, timeout time.Duration, pf *serializedProgress, total int) (domain.ValidationResult, []dbOutcome) {
	type job struct {
		priority int
		adapter  Adapter
	}
	var jobs []job
	for i, a := range adapters {
		if !v.cfg.IsEnabled(a.Name()) {
			continue
		}
		if !a.PreFilter(ref) {
			continue
		}
		jobs = append(jobs, job{priority: i, adapter: a})
	}

	outcomes := make([]dbOutcome, 0, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, j := range jobs {
		if v.isCancelled() {
			break
		}
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			if v.isCancelled() {
				return
			}
			bucket := v.limiter.Get(j.adapter.RateLimitGroup())
			if err := bucket.Wait(ctx); err != nil {
				return
			}
			if v.isCancelled() {
				return
			}
			deadline := time.Now().Add(timeout)
			out := j.adapter.Query(ctx, ref, deadline)
			out = v.retryRateLimited(ctx, j.adapter, ref, deadline, out)

			mu.Lock()
			outcomes = append(outcomes, dbOutcome{
				adapterName: j.adapter.Name(),
				priority:    j.priority,
				isOpenAlex:  j.adapter.Name() == openAlexName,
				outcome:     out,
			})
			mu.Unlock()
			if pf != nil {
				st := domain.DbNoMatch
				switch out.Kind {
				case OutcomeHit:
					st = domain.DbMatch
				case OutcomeTimeout:
					st = domain.DbTimeout
				case OutcomeError, OutcomeRateLimited:
					st = domain.DbError
				case OutcomeSkipped:
					st = domain.DbSkipped
				}
				pf.emit(ProgressEvent{Name: EventDbUpdate, Total: total, DbName: j.adapter.Name(), DbStatus: st})
			}
		}(j)
	}
	wg.Wait()

	result := fuse(ref, outcomes, v.cfg)
	v.annotateDOI(ctx, ref, &result)
	v.annotateRetraction(ctx, ref, &result)
	return result, outcomes
}

// retryRateLimited applies the exponential-backoff retry loop on top of an
// adapter's immediate RateLimited outcome (spec.md §4.5 "Rate limiting").
func (v *Validator) retryRateLimited(ctx context.Context, a Adapter, ref domain.Reference, deadline time.Time, out AdapterOutcome) AdapterOutcome {
	maxRetries := v.cfg.MaxRateLimitRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	attempt := 0
	for out.Kind == OutcomeRateLimited && attempt < maxRetries {
		delay := out.RetryAfter
		if delay <= 0 {
			delay = backoffFor(attempt)
		}
		select {
		case <-ctx.Done():
			return out
		case <-time.After(delay):
		}
		if v.isCancelled() {
			return out
		}
		attempt++
		out = a.Query(ctx, ref, deadline)
	}
	return out
}

func (v *Validator) annotateDOI(ctx context.Context, ref domain.Reference, result *domain.ValidationResult) {
	if ref.DOI == "" || v.doi == nil {
		return
	}
	title, ok := v.doi.ResolveDOI(ctx, ref.DOI)
	info := &domain.DoiInfo{DOI: ref.DOI, Valid: ok, Title: title}
	if ok && title != "" {
		// Flagged but never overrides an existing verified status (step 4).
		info.TitleMismatch = titlesDiverge(ref.Title, title)
	}
	result.DoiInfo = info
}

func (v *Validator) annotateRetraction(ctx context.Context, ref domain.Reference, result *domain.ValidationResult) {
	notice, source, retracted := v.gate.check(ctx, ref.DOI, ref.Title)
	if !retracted {
		return
	}
	result.Status = domain.StatusRetracted
	if result.Source == "" {
		result.Source = source
	}
	result.RetractionInfo = &domain.RetractionInfo{IsRetracted: true, Notice: notice, Source: source}
}
