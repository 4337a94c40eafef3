// Package resolver implements the report resolution flow: cache lookup,
// then prioritized source scraping with degrading fallback.
package resolver

import (
	"fmt"

	"github.com/sandesh/findocs/internal/types"
)

// BankNotFoundError indicates the symbol is not in the bank directory.
type BankNotFoundError struct {
	Symbol string
}

func (e *BankNotFoundError) Error() string {
	return fmt.Sprintf("bank not found: %s", e.Symbol)
}

// InvalidQuarterError indicates a quarter outside Q1-Q4 on a quarterly
// request, or a quarter supplied on an annual request.
type InvalidQuarterError struct {
	Kind    types.ReportKind
	Quarter types.Quarter
}

func (e *InvalidQuarterError) Error() string {
	if e.Kind == types.KindAnnual {
		return fmt.Sprintf("quarter %q not allowed for annual reports", e.Quarter)
	}
	return fmt.Sprintf("invalid quarter %q: must be Q1, Q2, Q3 or Q4", e.Quarter)
}

// NoSourcesConfiguredError indicates the bank profile has no URLs to scrape.
type NoSourcesConfiguredError struct {
	Symbol string
}

func (e *NoSourcesConfiguredError) Error() string {
	return fmt.Sprintf("no report URLs configured for bank %s", e.Symbol)
}

// ReportNotFoundError indicates every candidate source was tried and the
// report was confirmed absent. Distinct from a cache miss.
type ReportNotFoundError struct {
	Symbol     string
	FiscalYear string
	Kind       types.ReportKind
	Quarter    types.Quarter
	Attempts   int
}

func (e *ReportNotFoundError) Error() string {
	if e.Kind == types.KindQuarterly {
		return fmt.Sprintf("%s report %s for %s %s not found after trying %d sources",
			e.Kind, e.Quarter, e.Symbol, e.FiscalYear, e.Attempts)
	}
	return fmt.Sprintf("%s report for %s %s not found after trying %d sources",
		e.Kind, e.Symbol, e.FiscalYear, e.Attempts)
}

// UpstreamUnavailableError indicates every candidate failed on connectivity:
// nothing was fetched, so absence was not confirmed.
type UpstreamUnavailableError struct {
	Symbol   string
	Attempts int
	LastErr  error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("all %d sources for bank %s unreachable: %v", e.Attempts, e.Symbol, e.LastErr)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.LastErr
}
