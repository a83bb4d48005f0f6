package domain

import "time"

// ValidatorConfig controls a Validator. Fields are read-only once a Validator
// is built from them (spec.md §3).
type ValidatorConfig struct {
	NumWorkers           int
	DbTimeout            time.Duration
	DbTimeoutShort       time.Duration
	DisabledDbs          map[string]bool
	CheckOpenAlexAuthors bool
	OpenAlexKey          string
	S2ApiKey             string
	CrossrefMailto       string
	DblpOfflinePath      string
	AclOfflinePath       string
	RetractionListPath   string
	MaxRateLimitRetries  int
}

// DefaultValidatorConfig returns the configuration spec.md §3 names as the
// defaults: 4 workers, 10s/5s timeouts, 3 rate-limit retries, no db disabled.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		NumWorkers:          4,
		DbTimeout:           10 * time.Second,
		DbTimeoutShort:      5 * time.Second,
		DisabledDbs:         map[string]bool{},
		MaxRateLimitRetries: 3,
	}
}

// IsEnabled reports whether a named database adapter is enabled under this config.
func (c ValidatorConfig) IsEnabled(dbName string) bool {
	return !c.DisabledDbs[dbName]
}
