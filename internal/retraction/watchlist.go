// Package retraction implements the local retraction watchlist supplement
// (SPEC_FULL.md §11): a pluggable list of known-retracted DOIs/titles
// consulted alongside CrossRef's retraction flag (spec.md §4.5 step 5).
package retraction

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/normalize"
	"github.com/weinshel/hallucinator-sub000/internal/verrors"
)

// Entry is one watchlisted retracted work.
type Entry struct {
	DOI    string `json:"doi"`
	Title  string `json:"title"`
	Notice string `json:"notice"`
}

// Watchlist is an in-memory lookup table, loaded once at construction.
type Watchlist struct {
	byDOI         map[string]Entry
	byFingerprint map[string]Entry
}

// Load reads a watchlist file. JSON (`[]Entry`) is tried first; a CSV file
// with header "doi,title,notice" is used as a fallback for plain-text
// authoring. An empty path returns an empty, always-miss Watchlist.
func Load(path string) (*Watchlist, error) {
	w := &Watchlist{byDOI: map[string]Entry{}, byFingerprint: map[string]Entry{}}
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("retraction: reading watchlist: %w: %w", verrors.ErrConfig, err)
	}

	var entries []Entry
	if jsonErr := json.Unmarshal(data, &entries); jsonErr != nil {
		entries, err = parseCSV(data)
		if err != nil {
			return nil, fmt.Errorf("retraction: parsing watchlist: %w: %w (json: %v)", verrors.ErrConfig, err, jsonErr)
		}
	}
	for _, e := range entries {
		w.add(e)
	}
	return w, nil
}

func (w *Watchlist) add(e Entry) {
	if e.DOI != "" {
		w.byDOI[strings.ToLower(e.DOI)] = e
	}
	if e.Title != "" {
		w.byFingerprint[normalize.Fingerprint(e.Title)] = e
	}
}

func parseCSV(data []byte) ([]Entry, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // header
		}
		e := Entry{DOI: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			e.Title = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			e.Notice = strings.TrimSpace(row[2])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Check reports whether doi or title matches a watchlisted retraction.
func (w *Watchlist) Check(doi, title string) (Entry, bool) {
	if w == nil {
		return Entry{}, false
	}
	if doi != "" {
		if e, ok := w.byDOI[strings.ToLower(doi)]; ok {
			return e, true
		}
	}
	if title != "" {
		if e, ok := w.byFingerprint[normalize.Fingerprint(title)]; ok {
			return e, true
		}
	}
	return Entry{}, false
}
