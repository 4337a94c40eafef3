package resolver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Diagnosis overall status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// URLDiagnosis is the probe result for one configured URL.
type URLDiagnosis struct {
	Role          SourceRole `json:"role"`
	URL           string     `json:"url"`
	Accessible    bool       `json:"accessible"`
	StatusCode    int        `json:"status_code,omitempty"`
	ContentLength int        `json:"content_length,omitempty"`
	Issue         string     `json:"issue,omitempty"`
}

// Diagnosis summarizes the reachability of a bank's configured sources.
type Diagnosis struct {
	BankSymbol      string         `json:"bank_symbol"`
	BankName        string         `json:"bank_name"`
	CheckedAt       time.Time      `json:"checked_at"`
	URLs            []URLDiagnosis `json:"urls"`
	TestedCount     int            `json:"tested_count"`
	AccessibleCount int            `json:"accessible_count"`
	OverallStatus   string         `json:"overall_status"`
	Recommendation  string         `json:"recommendation"`
}

// Diagnose probes every configured URL on a bank profile and reports which
// are reachable. Probes are paced the same way scrape attempts are.
func (r *Resolver) Diagnose(ctx context.Context, symbol string) (*Diagnosis, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &BankNotFoundError{Symbol: symbol}
	}

	bank, err := r.directory.GetBank(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("bank lookup for %s: %w", symbol, err)
	}
	if bank == nil {
		return nil, &BankNotFoundError{Symbol: symbol}
	}

	targets := []struct {
		url  string
		role SourceRole
	}{
		{bank.Website, RoleWebsite},
		{bank.ReportPage, RoleReportPage},
		{bank.AnnualReportURL, RoleAnnualReportURL},
		{bank.QuarterReportURL, RoleQuarterReportURL},
	}

	diagnosis := &Diagnosis{
		BankSymbol: bank.Symbol,
		BankName:   bank.Name,
		CheckedAt:  time.Now().UTC(),
	}

	pacer := r.pacer
	if pacer == nil {
		if r.pacingDelay <= 0 {
			pacer = rate.NewLimiter(rate.Inf, 1)
		} else {
			pacer = rate.NewLimiter(rate.Every(r.pacingDelay), 1)
		}
	}

	for _, target := range targets {
		if target.url == "" {
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}

		entry := URLDiagnosis{Role: target.role, URL: target.url}
		status, length, err := r.fetcher.Probe(ctx, target.url)
		entry.StatusCode = status
		entry.ContentLength = length
		switch {
		case err != nil:
			entry.Issue = err.Error()
		case status != 200:
			entry.Issue = fmt.Sprintf("unexpected status %d", status)
		case length == 0:
			entry.Issue = "empty response body"
		default:
			entry.Accessible = true
		}
		if !entry.Accessible {
			log.Printf("[resolver] diagnose %s: %s (%s) not accessible: %s", symbol, target.url, target.role, entry.Issue)
		}
		diagnosis.URLs = append(diagnosis.URLs, entry)
	}

	diagnosis.TestedCount = len(diagnosis.URLs)
	for _, entry := range diagnosis.URLs {
		if entry.Accessible {
			diagnosis.AccessibleCount++
		}
	}
	diagnosis.OverallStatus, diagnosis.Recommendation = summarize(diagnosis)
	return diagnosis, nil
}

func summarize(d *Diagnosis) (status, recommendation string) {
	switch {
	case d.TestedCount == 0:
		return StatusUnhealthy, "no URLs configured for this bank; populate the bank profile before requesting reports"
	case d.AccessibleCount == 0:
		return StatusUnhealthy, "no configured URL is reachable; the bank's site may be down or blocking automated requests"
	case d.AccessibleCount < d.TestedCount:
		return StatusDegraded, "some configured URLs are unreachable; resolution will fall back to the remaining sources"
	default:
		return StatusHealthy, "all configured URLs are reachable"
	}
}
