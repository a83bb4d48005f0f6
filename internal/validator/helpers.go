package validator

import (
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

func backoffFor(attempt int) time.Duration {
	return ratelimit.Backoff(attempt)
}

func titlesDiverge(a, b string) bool {
	return !normalize.TitlesMatch(a, b)
}
