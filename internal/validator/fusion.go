package validator

import (
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
)

// NormalizeAuthorName normalizes an author name to "<first-initial-upper>
// <surname-lower>" for set-intersection comparisons (spec.md §4.5).
func NormalizeAuthorName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	surname := fields[len(fields)-1]
	firstRunes := []rune(strings.TrimFunc(first, func(r rune) bool { return r == '.' }))
	if len(firstRunes) == 0 {
		return ""
	}
	initial := strings.ToUpper(string(firstRunes[0]))
	return initial + " " + strings.ToLower(surname)
}

// AuthorsValidate reports whether refAuthors and foundAuthors share at
// least one normalized entry. An empty refAuthors set vacuously validates
// (spec.md §4.5) — it never yields a mismatch.
func AuthorsValidate(refAuthors, foundAuthors []string) bool {
	if len(refAuthors) == 0 {
		return true
	}
	found := make(map[string]bool, len(foundAuthors))
	for _, a := range foundAuthors {
		if n := NormalizeAuthorName(a); n != "" {
			found[n] = true
		}
	}
	for _, a := range refAuthors {
		if n := NormalizeAuthorName(a); n != "" && found[n] {
			return true
		}
	}
	return false
}

// dbOutcome pairs one adapter's result with its identity, for fusion.
type dbOutcome struct {
	adapterName string
	priority    int
	isOpenAlex  bool
	outcome     AdapterOutcome
}

const openAlexName = "openalex"

// fuse implements spec.md §4.5's fusion algorithm over the outcomes
// collected for a single reference.
func fuse(ref domain.Reference, outcomes []dbOutcome, cfg domain.ValidatorConfig) domain.ValidationResult {
	result := domain.ValidationResult{
		Title:       ref.Title,
		RawCitation: ref.RawCitation,
		RefAuthors:  ref.Authors,
		Status:      domain.StatusNotFound,
	}

	for _, o := range outcomes {
		db := domain.DbResult{DbName: o.adapterName}
		switch o.outcome.Kind {
		case OutcomeHit:
			db.Status = domain.DbMatch
			db.FoundTitle = o.outcome.FoundTitle
			db.FoundAuthors = o.outcome.FoundAuthors
			db.URL = o.outcome.URL
		case OutcomeMiss:
			db.Status = domain.DbNoMatch
		case OutcomeTimeout:
			db.Status = domain.DbTimeout
		case OutcomeError, OutcomeRateLimited:
			db.Status = domain.DbError
		case OutcomeSkipped:
			db.Status = domain.DbSkipped
		}
		result.DbResults = append(result.DbResults, db)
	}

	// Step 2: first validated Hit by priority order wins outright.
	var bestValidated *dbOutcome
	var bestMismatch *dbOutcome
	mismatchFromNonOpenAlex := false
	for i := range outcomes {
		o := &outcomes[i]
		if o.outcome.Kind != OutcomeHit {
			continue
		}
		if AuthorsValidate(ref.Authors, o.outcome.FoundAuthors) {
			if bestValidated == nil || o.priority < bestValidated.priority {
				bestValidated = o
			}
		} else {
			if !o.isOpenAlex {
				mismatchFromNonOpenAlex = true
			}
			if bestMismatch == nil || o.priority < bestMismatch.priority {
				bestMismatch = o
			}
		}
	}

	switch {
	case bestValidated != nil:
		result.Status = domain.StatusVerified
		result.Source = bestValidated.adapterName
		result.FoundAuthors = bestValidated.outcome.FoundAuthors
		result.PaperURL = bestValidated.outcome.URL
	case bestMismatch != nil && (mismatchFromNonOpenAlex || cfg.CheckOpenAlexAuthors):
		result.Status = domain.StatusAuthorMismatch
		result.Source = bestMismatch.adapterName
		result.FoundAuthors = bestMismatch.outcome.FoundAuthors
		result.PaperURL = bestMismatch.outcome.URL
	}

	if result.Status == domain.StatusNotFound {
		for _, o := range outcomes {
			switch o.outcome.Kind {
			case OutcomeTimeout, OutcomeError, OutcomeRateLimited:
				result.FailedDbs = append(result.FailedDbs, o.adapterName)
			}
		}
	}

	return result
}
