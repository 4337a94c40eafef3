package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sandesh/findocs/internal/resolver"
	"github.com/sandesh/findocs/internal/types"
)

// ReportResponse is the response body for /annual-report and /quarterly-report.
type ReportResponse struct {
	Status     string `json:"status"`
	BankSymbol string `json:"bank_symbol"`
	BankName   string `json:"bank_name"`
	FiscalYear string `json:"fiscal_year"`
	ReportType string `json:"report_type"`
	Quarter    string `json:"quarter,omitempty"`
	PDFURL     string `json:"pdf_url"`
	Source     string `json:"source"`
	Method     string `json:"method,omitempty"`
	ScrapedAt  string `json:"scraped_at,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// handleIndex describes the service
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"service": "Financial Documents API",
		"version": "1.0",
		"endpoints": map[string]string{
			"annual_report":    "/annual-report?bank_symbol=ADBL&fiscal_year=2079/80",
			"quarterly_report": "/quarterly-report?bank_symbol=ADBL&fiscal_year=2079/80&quarter=Q2",
			"diagnose":         "/diagnose/{symbol}",
			"health":           "/health",
			"metrics":          "/metrics",
		},
	})
}

// handleHealth reports service and database health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}

// handleAnnualReport resolves an annual report PDF link
func (s *Server) handleAnnualReport(w http.ResponseWriter, r *http.Request) {
	query := types.ReportQuery{
		BankSymbol: r.URL.Query().Get("bank_symbol"),
		FiscalYear: r.URL.Query().Get("fiscal_year"),
		Kind:       types.KindAnnual,
	}
	s.resolveReport(w, r, query)
}

// handleQuarterlyReport resolves a quarterly report PDF link
func (s *Server) handleQuarterlyReport(w http.ResponseWriter, r *http.Request) {
	query := types.ReportQuery{
		BankSymbol: r.URL.Query().Get("bank_symbol"),
		FiscalYear: r.URL.Query().Get("fiscal_year"),
		Kind:       types.KindQuarterly,
		Quarter:    types.Quarter(r.URL.Query().Get("quarter")),
	}
	s.resolveReport(w, r, query)
}

func (s *Server) resolveReport(w http.ResponseWriter, r *http.Request, query types.ReportQuery) {
	start := time.Now()
	res, err := s.resolver.Resolve(r.Context(), query)
	if err != nil {
		s.metrics.Failures.WithLabelValues(failureReason(err)).Inc()
		s.metrics.ResolveDuration.WithLabelValues("failure").Observe(time.Since(start).Seconds())
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if res.Source == resolver.SourceDatabase {
		s.metrics.CacheHits.Inc()
	} else {
		s.metrics.Scrapes.WithLabelValues(string(res.Record.Method)).Inc()
	}
	s.metrics.ResolveDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	response := ReportResponse{
		Status:     "success",
		BankSymbol: res.Record.BankSymbol,
		BankName:   res.BankName,
		FiscalYear: res.Record.FiscalYear,
		ReportType: string(res.Record.ReportType),
		PDFURL:     res.Record.PDFURL,
		Source:     res.Source,
		Method:     string(res.Record.Method),
		Warning:    res.Warning,
	}
	if res.Record.Quarter != nil {
		response.Quarter = string(*res.Record.Quarter)
	}
	if !res.Record.ScrapedAt.IsZero() {
		response.ScrapedAt = res.Record.ScrapedAt.UTC().Format(time.RFC3339)
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleDiagnose probes every configured URL for a bank
func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	diagnosis, err := s.resolver.Diagnose(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, diagnosis)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
