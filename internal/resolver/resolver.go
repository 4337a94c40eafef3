package resolver

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sandesh/findocs/internal/fetch"
	"github.com/sandesh/findocs/internal/fiscalyear"
	"github.com/sandesh/findocs/internal/types"
)

// Source values reported on a successful resolution.
const (
	SourceDatabase = "database"
	SourceScraped  = "scraped"
)

// DefaultPacingDelay is the wait between consecutive scrape attempts
// against the same bank's sites.
const DefaultPacingDelay = 2 * time.Second

// BankDirectory looks up bank profiles by ticker symbol.
type BankDirectory interface {
	GetBank(ctx context.Context, symbol string) (*types.BankProfile, error)
}

// DocumentStore reads and writes cached report records.
type DocumentStore interface {
	FindDocument(ctx context.Context, bankID int64, fiscalYears []string, kind types.ReportKind, quarter *types.Quarter) (*types.ReportRecord, error)
	InsertDocument(ctx context.Context, record *types.ReportRecord) error
}

// ContentFetcher retrieves page content for scraping and probing.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
	Probe(ctx context.Context, url string) (statusCode int, contentLength int, err error)
}

// Extractor finds a report link in page content. A nil report with a nil
// error means the content was readable but held no matching report.
type Extractor interface {
	Extract(ctx context.Context, content string, directive types.ExtractionDirective) (*types.ExtractedReport, error)
}

// Pacer spaces out consecutive requests to the same bank.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Record   *types.ReportRecord
	BankName string
	Source   string
	Warning  string
}

// Config wires a Resolver's collaborators. Pacer overrides PacingDelay
// when set; a zero PacingDelay disables pacing.
type Config struct {
	Directory   BankDirectory
	Store       DocumentStore
	Fetcher     ContentFetcher
	Extractor   Extractor
	PacingDelay time.Duration
	Pacer       Pacer
}

// Resolver turns report queries into PDF links, checking the database
// before scraping prioritized bank sources.
type Resolver struct {
	directory   BankDirectory
	store       DocumentStore
	fetcher     ContentFetcher
	extractor   Extractor
	pacingDelay time.Duration
	pacer       Pacer
}

func New(cfg Config) *Resolver {
	return &Resolver{
		directory:   cfg.Directory,
		store:       cfg.Store,
		fetcher:     cfg.Fetcher,
		extractor:   cfg.Extractor,
		pacingDelay: cfg.PacingDelay,
		pacer:       cfg.Pacer,
	}
}

// newPacer returns the configured pacer, or a token bucket allowing one
// immediate attempt and one attempt per pacing delay thereafter.
func (r *Resolver) newPacer() Pacer {
	if r.pacer != nil {
		return r.pacer
	}
	if r.pacingDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(r.pacingDelay), 1)
}

// Resolve answers a report query: validate, look up the bank, check the
// cache under both calendar renderings, and only then scrape candidate
// sources in priority order. Persistence of a scraped result is best
// effort; a storage failure downgrades to a warning on the resolution.
func (r *Resolver) Resolve(ctx context.Context, query types.ReportQuery) (*Resolution, error) {
	query.BankSymbol = strings.ToUpper(strings.TrimSpace(query.BankSymbol))
	query.Quarter = types.Quarter(strings.ToUpper(strings.TrimSpace(string(query.Quarter))))

	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := checkQuarter(query); err != nil {
		return nil, err
	}

	fy, err := fiscalyear.Normalize(query.FiscalYear)
	if err != nil {
		return nil, err
	}

	var quarter *types.Quarter
	if query.Kind == types.KindQuarterly {
		q := query.Quarter
		quarter = &q
	}

	bank, err := r.directory.GetBank(ctx, query.BankSymbol)
	if err != nil {
		return nil, fmt.Errorf("bank lookup for %s: %w", query.BankSymbol, err)
	}
	if bank == nil {
		return nil, &BankNotFoundError{Symbol: query.BankSymbol}
	}

	cached, err := r.store.FindDocument(ctx, bank.ID, fy.Variants(), query.Kind, quarter)
	if err != nil {
		return nil, fmt.Errorf("cache lookup for %s %s: %w", query.BankSymbol, fy.BS, err)
	}
	if cached != nil {
		log.Printf("[resolver] cache hit for %s %s %s", query.BankSymbol, query.Kind, cached.FiscalYear)
		return &Resolution{Record: cached, BankName: bank.Name, Source: SourceDatabase}, nil
	}

	candidates := Candidates(bank, query.Kind)
	if len(candidates) == 0 {
		return nil, &NoSourcesConfiguredError{Symbol: query.BankSymbol}
	}

	directive := types.ExtractionDirective{
		Kind:         query.Kind,
		FiscalYearBS: fy.BS,
		FiscalYearAD: fy.AD,
	}
	if quarter != nil {
		directive.Quarter = *quarter
	}

	pacer := r.newPacer()
	var (
		connectivityFailures int
		contentFailures      int
		lastConnectivityErr  error
	)
	for _, cand := range candidates {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := r.fetcher.Fetch(ctx, cand.URL)
		if err != nil {
			log.Printf("[resolver] source %d (%s) for %s unreachable: %v", cand.Rank, cand.Role, query.BankSymbol, err)
			connectivityFailures++
			lastConnectivityErr = err
			continue
		}

		extracted, err := r.extractor.Extract(ctx, page.Content, directive)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[resolver] extraction on source %d (%s) for %s failed: %v", cand.Rank, cand.Role, query.BankSymbol, err)
			contentFailures++
			continue
		}
		if extracted == nil {
			log.Printf("[resolver] source %d (%s) for %s holds no matching report", cand.Rank, cand.Role, query.BankSymbol)
			contentFailures++
			continue
		}
		if err := validateExtraction(extracted, fy, query.Kind, quarter); err != nil {
			log.Printf("[resolver] rejecting extraction from source %d (%s) for %s: %v", cand.Rank, cand.Role, query.BankSymbol, err)
			contentFailures++
			continue
		}

		record := &types.ReportRecord{
			BankID:     bank.ID,
			BankSymbol: bank.Symbol,
			PDFURL:     extracted.FileURL,
			FiscalYear: extracted.FiscalYear,
			ReportType: query.Kind,
			Quarter:    quarter,
			ScrapedAt:  time.Now().UTC(),
			Method:     page.RenderMethod,
		}

		resolution := &Resolution{Record: record, BankName: bank.Name, Source: SourceScraped}
		if err := r.store.InsertDocument(ctx, record); err != nil {
			log.Printf("[resolver] warning: could not cache %s %s for %s: %v", query.Kind, record.FiscalYear, query.BankSymbol, err)
			resolution.Warning = fmt.Sprintf("report resolved but could not be cached: %v", err)
		}
		log.Printf("[resolver] resolved %s %s for %s from source %d (%s)", query.Kind, record.FiscalYear, query.BankSymbol, cand.Rank, cand.Role)
		return resolution, nil
	}

	if connectivityFailures > 0 && contentFailures == 0 {
		return nil, &UpstreamUnavailableError{
			Symbol:   query.BankSymbol,
			Attempts: connectivityFailures,
			LastErr:  lastConnectivityErr,
		}
	}
	return nil, &ReportNotFoundError{
		Symbol:     query.BankSymbol,
		FiscalYear: fy.BS,
		Kind:       query.Kind,
		Quarter:    query.Quarter,
		Attempts:   len(candidates),
	}
}

func checkQuarter(query types.ReportQuery) error {
	switch query.Kind {
	case types.KindQuarterly:
		if !query.Quarter.Valid() {
			return &InvalidQuarterError{Kind: query.Kind, Quarter: query.Quarter}
		}
	default:
		if query.Quarter != "" {
			return &InvalidQuarterError{Kind: query.Kind, Quarter: query.Quarter}
		}
	}
	return nil
}

// validateExtraction rejects model output that does not match the request:
// a relative or non-HTTP link, the wrong fiscal year, or the wrong quarter.
func validateExtraction(extracted *types.ExtractedReport, fy fiscalyear.Pair, kind types.ReportKind, quarter *types.Quarter) error {
	u, err := url.Parse(extracted.FileURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("file URL %q is not an absolute http(s) URL", extracted.FileURL)
	}
	if !fy.Matches(extracted.FiscalYear) {
		return fmt.Errorf("fiscal year %q matches neither %s nor %s", extracted.FiscalYear, fy.BS, fy.AD)
	}
	if extracted.ReportType != "" && extracted.ReportType != kind {
		return fmt.Errorf("report type %q does not match requested %s", extracted.ReportType, kind)
	}
	if quarter != nil {
		got := types.Quarter(strings.ToUpper(string(extracted.Quarter)))
		if got != *quarter {
			return fmt.Errorf("quarter %q does not match requested %s", extracted.Quarter, *quarter)
		}
	}
	return nil
}
