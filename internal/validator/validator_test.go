package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

type fakeAdapter struct {
	name      string
	group     string
	pre       func(domain.Reference) bool
	outcome   AdapterOutcome
	queryFunc func(ctx context.Context, ref domain.Reference, deadline time.Time) AdapterOutcome
	calls     int
}

func (f *fakeAdapter) Name() string               { return f.name }
func (f *fakeAdapter) RateLimitGroup() string     { return f.group }
func (f *fakeAdapter) PreFilter(domain.Reference) bool {
	if f.pre == nil {
		return true
	}
	return f.pre(domain.Reference{})
}
func (f *fakeAdapter) Query(ctx context.Context, ref domain.Reference, deadline time.Time) AdapterOutcome {
	f.calls++
	if f.queryFunc != nil {
		return f.queryFunc(ctx, ref, deadline)
	}
	return f.outcome
}

func testConfig() domain.ValidatorConfig {
	cfg := domain.DefaultValidatorConfig()
	cfg.NumWorkers = 4
	cfg.DbTimeout = time.Second
	cfg.DbTimeoutShort = 500 * time.Millisecond
	return cfg
}

func TestCheck_AllDisabled_AllNotFound(t *testing.T) {
	cfg := testConfig()
	v := New(cfg, nil, ratelimit.NewRegistry(), nil, nil, nil)
	refs := make([]domain.Reference, 5)
	for i := range refs {
		refs[i] = domain.Reference{Title: "Some Paper Title", Authors: []string{"J. Smith"}}
	}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, domain.StatusNotFound, r.Status)
		assert.Empty(t, r.DbResults)
		assert.Empty(t, r.FailedDbs)
	}
}

func TestCheck_VerifiedWhenAuthorsValidate(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous", outcome: AdapterOutcome{
		Kind: OutcomeHit, FoundTitle: "Some Paper Title", FoundAuthors: []string{"John Smith", "Alice Jones"},
	}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusVerified, results[0].Status)
	assert.Equal(t, "crossref", results[0].Source)
}

func TestCheck_AuthorMismatchFromNonOpenAlex(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous", outcome: AdapterOutcome{
		Kind: OutcomeHit, FoundTitle: "Some Paper Title", FoundAuthors: []string{"Someone Else"},
	}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusAuthorMismatch, results[0].Status)
}

func TestCheck_OpenAlexOnlyMismatchSuppressed(t *testing.T) {
	a := &fakeAdapter{name: "openalex", group: "openalex", outcome: AdapterOutcome{
		Kind: OutcomeHit, FoundTitle: "Some Paper Title", FoundAuthors: []string{"Someone Else"},
	}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusNotFound, results[0].Status)
}

func TestCheck_OpenAlexMismatchSurfacesWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.CheckOpenAlexAuthors = true
	a := &fakeAdapter{name: "openalex", group: "openalex", outcome: AdapterOutcome{
		Kind: OutcomeHit, FoundTitle: "Some Paper Title", FoundAuthors: []string{"Someone Else"},
	}}
	v := New(cfg, []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusAuthorMismatch, results[0].Status)
}

func TestCheck_FailedDbsPopulatedOnTimeout(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous", outcome: AdapterOutcome{Kind: OutcomeTimeout}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusNotFound, results[0].Status)
	assert.Contains(t, results[0].FailedDbs, "crossref")
}

func TestCheck_RetryPassRecoversAfterTransientTimeout(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous"}
	a.queryFunc = func(ctx context.Context, ref domain.Reference, deadline time.Time) AdapterOutcome {
		if a.calls == 1 {
			return AdapterOutcome{Kind: OutcomeTimeout}
		}
		return AdapterOutcome{Kind: OutcomeHit, FoundTitle: ref.Title, FoundAuthors: ref.Authors}
	}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title", Authors: []string{"J. Smith"}}}
	results := v.Check(context.Background(), refs, nil)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusVerified, results[0].Status)
	assert.Empty(t, results[0].FailedDbs)
}

func TestCheck_CancelBeforeRunReturnsEmpty(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous", outcome: AdapterOutcome{Kind: OutcomeMiss}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	v.Cancel()
	refs := []domain.Reference{{Title: "Some Paper Title"}, {Title: "Other Paper Title"}}
	results := v.Check(context.Background(), refs, nil)
	assert.Empty(t, results)
}

func TestCheck_ProgressEventsOrderedPerReference(t *testing.T) {
	a := &fakeAdapter{name: "crossref", group: "crossref.anonymous", outcome: AdapterOutcome{Kind: OutcomeMiss}}
	v := New(testConfig(), []Adapter{a}, ratelimit.NewRegistry(), nil, nil, nil)
	refs := []domain.Reference{{Title: "Some Paper Title"}}

	var events []EventName
	v.Check(context.Background(), refs, func(ev ProgressEvent) {
		events = append(events, ev.Name)
	})
	require.NotEmpty(t, events)
	assert.Equal(t, EventChecking, events[0])
	assert.Equal(t, EventResult, events[len(events)-1])
}

func TestAuthorsValidate_EmptyRefAuthorsVacuouslyValid(t *testing.T) {
	assert.True(t, AuthorsValidate(nil, []string{"Someone Else"}))
}

func TestAuthorsValidate_Monotonicity(t *testing.T) {
	ref := []string{"J. Smith"}
	assert.True(t, AuthorsValidate(ref, []string{"John Smith"}))
	assert.True(t, AuthorsValidate(ref, []string{"John Smith", "Extra Person"}))
}

func TestNormalizeAuthorName(t *testing.T) {
	assert.Equal(t, "J smith", NormalizeAuthorName("J. Smith"))
	assert.Equal(t, "J smith", NormalizeAuthorName("John Smith"))
}
