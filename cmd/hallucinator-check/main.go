// Command hallucinator-check is the CLI shell spec.md §1 treats as an
// excluded collaborator: it wires the same extraction/validation core the
// HTTP server uses into a single-shot, colorized terminal report, grounded
// on check_hallucinated_references.py's Colors/print_hallucinated_reference
// output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/extractor"
	"github.com/weinshel/hallucinator-sub000/internal/retraction"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/acl"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/arxiv"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/crossref"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/dblp"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/europepmc"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/neurips"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/openalex"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/pubmed"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/semanticscholar"
	"github.com/weinshel/hallucinator-sub000/internal/validator/adapters/ssrn"
	"github.com/weinshel/hallucinator-sub000/internal/validator/ratelimit"
)

// colors are the ANSI codes check_hallucinated_references.py's Colors class
// defines; noColor zeroes them all out, matching its disable().
type colors struct {
	red, green, yellow, cyan, magenta, bold, dim, reset string
}

func newColors(enabled bool) colors {
	if !enabled {
		return colors{}
	}
	return colors{
		red:     "\033[91m",
		green:   "\033[92m",
		yellow:  "\033[93m",
		cyan:    "\033[96m",
		magenta: "\033[95m",
		bold:    "\033[1m",
		dim:     "\033[2m",
		reset:   "\033[0m",
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		noColor        bool
		openalexKey    string
		s2Key          string
		crossrefMailto string
		watchlistPath  string
		timeout        time.Duration
	)
	fs := flag.NewFlagSet("hallucinator-check", flag.ContinueOnError)
	fs.BoolVar(&noColor, "no-color", false, "disable ANSI color output")
	fs.StringVar(&openalexKey, "openalex-key", "", "OpenAlex API key (raises its rate limit tier)")
	fs.StringVar(&s2Key, "s2-key", "", "Semantic Scholar API key")
	fs.StringVar(&crossrefMailto, "crossref-mailto", "", "email for CrossRef's polite pool")
	fs.StringVar(&watchlistPath, "watchlist", "", "path to a local retraction watchlist (JSON or CSV)")
	fs.DurationVar(&timeout, "timeout", 10*time.Minute, "overall timeout for the check")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hallucinator-check [flags] <path_to_pdf>")
		fs.PrintDefaults()
		return 2
	}
	pdfPath := fs.Arg(0)

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: file %q not found or unreadable: %v\n", pdfPath, err)
		return 2
	}

	c := newColors(!noColor)

	ext := extractor.New()
	extraction, err := ext.Extract(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Error] Failed to extract references: %v\n", err)
		return 3
	}
	if len(extraction.References) == 0 {
		fmt.Println("[Error] Could not locate references section")
		return 3
	}

	fmt.Printf("Analyzing paper %s\n", filepath.Base(pdfPath))

	cfg := domain.DefaultValidatorConfig()
	cfg.OpenAlexKey = openalexKey
	cfg.S2ApiKey = s2Key
	cfg.CrossrefMailto = crossrefMailto
	cfg.RetractionListPath = watchlistPath

	var watchlist *retraction.Watchlist
	if watchlistPath != "" {
		w, err := retraction.Load(watchlistPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[Error] Failed to load watchlist: %v\n", err)
			return 2
		}
		watchlist = w
	}

	limiter := ratelimit.NewRegistry()
	if crossrefMailto != "" {
		limiter.SetRate("crossref.polite", 50)
	}
	if s2Key != "" {
		limiter.SetRate("semanticscholar.keyed", 10)
	}

	crossrefClient := crossref.New(crossrefMailto)
	adapters := []validator.Adapter{
		crossrefClient,
		openalex.New(openalexKey),
		arxiv.New(),
		dblp.New(),
		semanticscholar.New(s2Key),
		acl.New(),
		neurips.New(),
		europepmc.New(),
		pubmed.New(),
		ssrn.New(),
	}

	v := validator.New(cfg, adapters, limiter, crossrefClient, crossrefClient, watchlist)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		v.Cancel()
		cancel()
	}()

	results := v.Check(ctx, extraction.References, nil)

	anomalies := 0
	for _, r := range results {
		switch r.Status {
		case domain.StatusNotFound:
			printNotFound(c, r, openalexKey != "")
			anomalies++
		case domain.StatusAuthorMismatch:
			printMismatch(c, r)
			anomalies++
		case domain.StatusRetracted:
			printRetracted(c, r)
			anomalies++
		}
	}

	stats := domain.Stats(results, extraction.Stats.URLOnly+extraction.Stats.ShortTitle)
	printSummary(c, stats)

	if anomalies > 0 {
		return 1
	}
	return 0
}

func printNotFound(c colors, r domain.ValidationResult, searchedOpenAlex bool) {
	fmt.Println()
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Printf("%s%sPOTENTIAL HALLUCINATION DETECTED%s\n", c.red, c.bold, c.reset)
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Println()
	fmt.Printf("%sTitle:%s\n", c.bold, c.reset)
	fmt.Printf("  %s%s%s\n", c.cyan, r.Title, c.reset)
	fmt.Println()
	fmt.Printf("%sStatus:%s Reference not found in any database\n", c.red, c.reset)
	if searchedOpenAlex {
		fmt.Printf("%sSearched: OpenAlex, CrossRef, arXiv, DBLP, Semantic Scholar, and others%s\n", c.dim, c.reset)
	} else {
		fmt.Printf("%sSearched: CrossRef, arXiv, DBLP, Semantic Scholar, and others%s\n", c.dim, c.reset)
	}
	printFooter(c)
}

func printMismatch(c colors, r domain.ValidationResult) {
	fmt.Println()
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Printf("%s%sPOTENTIAL HALLUCINATION DETECTED%s\n", c.red, c.bold, c.reset)
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Println()
	fmt.Printf("%sTitle:%s\n", c.bold, c.reset)
	fmt.Printf("  %s%s%s\n", c.cyan, r.Title, c.reset)
	fmt.Println()
	fmt.Printf("%sStatus:%s Title found on %s but authors don't match\n", c.yellow, c.reset, r.Source)
	fmt.Println()
	fmt.Printf("%sAuthors in paper:%s\n", c.bold, c.reset)
	for _, a := range r.RefAuthors {
		fmt.Printf("  %s• %s%s\n", c.green, a, c.reset)
	}
	fmt.Println()
	fmt.Printf("%sAuthors in %s:%s\n", c.bold, r.Source, c.reset)
	for _, a := range r.FoundAuthors {
		fmt.Printf("  %s• %s%s\n", c.magenta, a, c.reset)
	}
	printFooter(c)
}

func printRetracted(c colors, r domain.ValidationResult) {
	fmt.Println()
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Printf("%s%sRETRACTED REFERENCE%s\n", c.red, c.bold, c.reset)
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Println()
	fmt.Printf("%sTitle:%s\n", c.bold, c.reset)
	fmt.Printf("  %s%s%s\n", c.cyan, r.Title, c.reset)
	if r.RetractionInfo != nil && r.RetractionInfo.Notice != "" {
		fmt.Println()
		fmt.Printf("%sNotice:%s %s\n", c.red, c.reset, r.RetractionInfo.Notice)
	}
	printFooter(c)
}

func printFooter(c colors) {
	fmt.Println()
	fmt.Printf("%s%s%s%s\n", c.red, c.bold, strings.Repeat("-", 60), c.reset)
	fmt.Println()
}

func printSummary(c colors, stats domain.CheckStats) {
	fmt.Println()
	fmt.Printf("%s%s%s\n", c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Printf("%sSUMMARY%s\n", c.bold, c.reset)
	fmt.Printf("%s%s%s\n", c.bold, strings.Repeat("=", 60), c.reset)
	fmt.Printf("  Total references analyzed: %d\n", stats.Total)
	fmt.Printf("  %sVerified:%s %d\n", c.green, c.reset, stats.Verified)
	if stats.AuthorMismatch > 0 {
		fmt.Printf("  %sAuthor mismatches:%s %d\n", c.yellow, c.reset, stats.AuthorMismatch)
	}
	if stats.Retracted > 0 {
		fmt.Printf("  %sRetracted:%s %d\n", c.red, c.reset, stats.Retracted)
	}
	if stats.NotFound > 0 {
		fmt.Printf("  %sNot found (potential hallucinations):%s %d\n", c.red, c.reset, stats.NotFound)
	}
	fmt.Println()
}
