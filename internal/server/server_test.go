package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh/findocs/internal/fiscalyear"
	"github.com/sandesh/findocs/internal/resolver"
	"github.com/sandesh/findocs/internal/types"
)

type fakeResolver struct {
	resolution *resolver.Resolution
	resolveErr error
	diagnosis  *resolver.Diagnosis
	queries    []types.ReportQuery
}

func (f *fakeResolver) Resolve(_ context.Context, query types.ReportQuery) (*resolver.Resolution, error) {
	f.queries = append(f.queries, query)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.resolution, nil
}

func (f *fakeResolver) Diagnose(_ context.Context, symbol string) (*resolver.Diagnosis, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.diagnosis, nil
}

func newTestServer(res reportResolver) *Server {
	return newServer(nil, nil, res)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnnualReport_Success(t *testing.T) {
	scrapedAt := time.Date(2023, 8, 1, 10, 0, 0, 0, time.UTC)
	fake := &fakeResolver{resolution: &resolver.Resolution{
		Record: &types.ReportRecord{
			BankSymbol: "ADBL",
			PDFURL:     "https://adbl.example.com/files/annual-2079-80.pdf",
			FiscalYear: "2079/80",
			ReportType: types.KindAnnual,
			ScrapedAt:  scrapedAt,
			Method:     types.MethodStatic,
		},
		BankName: "Agricultural Development Bank",
		Source:   resolver.SourceDatabase,
	}}
	s := newTestServer(fake)

	rec := doRequest(t, s, http.MethodGet, "/annual-report?bank_symbol=ADBL&fiscal_year=2079/80")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "ADBL", resp.BankSymbol)
	assert.Equal(t, "database", resp.Source)
	assert.Equal(t, "https://adbl.example.com/files/annual-2079-80.pdf", resp.PDFURL)
	assert.Equal(t, "2023-08-01T10:00:00Z", resp.ScrapedAt)
	assert.Empty(t, resp.Quarter)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, types.KindAnnual, fake.queries[0].Kind)
	assert.Equal(t, "2079/80", fake.queries[0].FiscalYear)
}

func TestHandleQuarterlyReport_Success(t *testing.T) {
	q := types.Q2
	fake := &fakeResolver{resolution: &resolver.Resolution{
		Record: &types.ReportRecord{
			BankSymbol: "CZBIL",
			PDFURL:     "https://czbil.example.com/files/q2-2079-80.pdf",
			FiscalYear: "2079/80",
			ReportType: types.KindQuarterly,
			Quarter:    &q,
			ScrapedAt:  time.Now().UTC(),
			Method:     types.MethodDynamic,
		},
		BankName: "Citizens Bank",
		Source:   resolver.SourceScraped,
	}}
	s := newTestServer(fake)

	rec := doRequest(t, s, http.MethodGet, "/quarterly-report?bank_symbol=CZBIL&fiscal_year=2079/80&quarter=Q2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "scraped", resp.Source)
	assert.Equal(t, "Q2", resp.Quarter)
	assert.Equal(t, "dynamic", resp.Method)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, types.Q2, fake.queries[0].Quarter)
}

func TestHandleAnnualReport_PersistenceWarningSurfaced(t *testing.T) {
	fake := &fakeResolver{resolution: &resolver.Resolution{
		Record: &types.ReportRecord{
			BankSymbol: "ADBL",
			PDFURL:     "https://adbl.example.com/files/annual-2079-80.pdf",
			FiscalYear: "2079/80",
			ReportType: types.KindAnnual,
			Method:     types.MethodStatic,
		},
		BankName: "Agricultural Development Bank",
		Source:   resolver.SourceScraped,
		Warning:  "report resolved but could not be cached: connection reset",
	}}
	s := newTestServer(fake)

	rec := doRequest(t, s, http.MethodGet, "/annual-report?bank_symbol=ADBL&fiscal_year=2079/80")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Warning, "could not be cached")
}

func TestHandleReport_ErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed fiscal year", &fiscalyear.MalformedError{Input: "2079-80"}, http.StatusBadRequest},
		{"unknown calendar", &fiscalyear.UnknownCalendarError{Input: "1999/00", Start: 1999}, http.StatusBadRequest},
		{"invalid quarter", &resolver.InvalidQuarterError{Kind: types.KindQuarterly, Quarter: "Q5"}, http.StatusBadRequest},
		{"bank not found", &resolver.BankNotFoundError{Symbol: "NOPE"}, http.StatusNotFound},
		{"report not found", &resolver.ReportNotFoundError{Symbol: "ADBL", FiscalYear: "2079/80", Kind: types.KindAnnual, Attempts: 3}, http.StatusNotFound},
		{"no sources configured", &resolver.NoSourcesConfiguredError{Symbol: "EMPT"}, http.StatusUnprocessableEntity},
		{"upstream unavailable", &resolver.UpstreamUnavailableError{Symbol: "ADBL", Attempts: 3}, http.StatusBadGateway},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeResolver{resolveErr: tt.err})
			rec := doRequest(t, s, http.MethodGet, "/annual-report?bank_symbol=ADBL&fiscal_year=2079/80")
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleDiagnose(t *testing.T) {
	fake := &fakeResolver{diagnosis: &resolver.Diagnosis{
		BankSymbol:      "ADBL",
		BankName:        "Agricultural Development Bank",
		TestedCount:     3,
		AccessibleCount: 3,
		OverallStatus:   resolver.StatusHealthy,
		Recommendation:  "all configured URLs are reachable",
	}}
	s := newTestServer(fake)

	rec := doRequest(t, s, http.MethodGet, "/diagnose/ADBL")
	require.Equal(t, http.StatusOK, rec.Code)

	var diagnosis resolver.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &diagnosis))
	assert.Equal(t, "ADBL", diagnosis.BankSymbol)
	assert.Equal(t, resolver.StatusHealthy, diagnosis.OverallStatus)
}

func TestHandleDiagnose_UnknownBank(t *testing.T) {
	s := newTestServer(&fakeResolver{resolveErr: &resolver.BankNotFoundError{Symbol: "NOPE"}})
	rec := doRequest(t, s, http.MethodGet, "/diagnose/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeResolver{})
	rec := doRequest(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(&fakeResolver{})
	rec := doRequest(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "annual-report")
}

func TestMetricsEndpoint_CountsResolutions(t *testing.T) {
	fake := &fakeResolver{resolution: &resolver.Resolution{
		Record: &types.ReportRecord{
			BankSymbol: "ADBL",
			PDFURL:     "https://adbl.example.com/files/annual-2079-80.pdf",
			FiscalYear: "2079/80",
			ReportType: types.KindAnnual,
		},
		BankName: "Agricultural Development Bank",
		Source:   resolver.SourceDatabase,
	}}
	s := newTestServer(fake)

	doRequest(t, s, http.MethodGet, "/annual-report?bank_symbol=ADBL&fiscal_year=2079/80")
	rec := doRequest(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "findocs_cache_hits_total 1")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeResolver{})
	rec := doRequest(t, s, http.MethodOptions, "/annual-report")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
