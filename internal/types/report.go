// Package types provides type definitions for structured data used throughout the findocs system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReportKind distinguishes annual from quarterly reports.
type ReportKind string

// Report kinds stored in the report_type column.
const (
	KindAnnual    ReportKind = "annual"
	KindQuarterly ReportKind = "quarterly"
)

// Quarter identifies one of the four fiscal quarters.
type Quarter string

// Fiscal quarters.
const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Valid reports whether q is one of Q1-Q4.
func (q Quarter) Valid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// RetrievalMethod records how a report link was obtained.
type RetrievalMethod string

// Retrieval methods stored in the method column.
const (
	MethodStatic  RetrievalMethod = "static"  // plain HTTP fetch
	MethodDynamic RetrievalMethod = "dynamic" // headless browser render
	MethodManual  RetrievalMethod = "manual"  // seeded by hand
	MethodAPI     RetrievalMethod = "api"     // third-party scraping API
)

// BankProfile holds a bank's directory entry with its configured report URLs.
// URL fields are empty when not configured for the bank.
type BankProfile struct {
	ID               int64  `json:"id"`
	Symbol           string `json:"symbol"`
	Name             string `json:"bank_name"`
	Website          string `json:"website,omitempty"`
	ReportPage       string `json:"report_page,omitempty"`
	AnnualReportURL  string `json:"annual_report_url,omitempty"`
	QuarterReportURL string `json:"quarter_report_url,omitempty"`
}

// ReportRecord is a persisted report link. Records are created only on a
// successful scrape and never updated in place.
type ReportRecord struct {
	ID         uuid.UUID       `json:"id"`
	BankID     int64           `json:"bank_id"`
	BankSymbol string          `json:"bank_symbol"`
	PDFURL     string          `json:"pdf_url"`
	FiscalYear string          `json:"fiscal_year"` // as found on the source page
	ReportType ReportKind      `json:"report_type"`
	Quarter    *Quarter        `json:"quarter,omitempty"`
	ScrapedAt  time.Time       `json:"scraped_at"`
	Method     RetrievalMethod `json:"method"`
}

// ReportQuery is a request to resolve one report link.
type ReportQuery struct {
	BankSymbol string     `json:"bank_symbol" validate:"required"`
	FiscalYear string     `json:"fiscal_year" validate:"required"`
	Kind       ReportKind `json:"report_type" validate:"required,oneof=annual quarterly"`
	Quarter    Quarter    `json:"quarter,omitempty"`
}

// Validate checks the structural shape of the query. The quarter/kind
// consistency rule is enforced separately by the resolver so it can surface
// a dedicated error.
func (q *ReportQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// ExtractionDirective tells the extractor exactly which report to look for
// in a page's content.
type ExtractionDirective struct {
	Kind         ReportKind
	FiscalYearBS string
	FiscalYearAD string
	Quarter      Quarter // empty for annual reports
}

// ExtractedReport is the extractor's answer for one page.
type ExtractedReport struct {
	FiscalYear  string     `json:"fiscal_year"`
	ReportType  ReportKind `json:"report_type"`
	Quarter     Quarter    `json:"quarter,omitempty"`
	FileURL     string     `json:"file_url"`
	ReportTitle string     `json:"report_title,omitempty"`
}
