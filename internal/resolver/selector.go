package resolver

import "github.com/sandesh/findocs/internal/types"

// SourceRole identifies which bank profile column a candidate URL came from.
type SourceRole string

const (
	RoleAnnualReportURL  SourceRole = "annual_report_url"
	RoleQuarterReportURL SourceRole = "quarter_report_url"
	RoleReportPage       SourceRole = "report_page"
	RoleWebsite          SourceRole = "website"
)

// SourceCandidate is one URL to try during resolution, in priority order.
type SourceCandidate struct {
	URL  string
	Role SourceRole
	Rank int
}

// Candidates builds the prioritized source list for a bank and report kind.
// The kind-specific listing page ranks first, the general report page second,
// and the bank website last. Empty columns are skipped; the annual listing is
// never consulted for quarterly reports and vice versa.
func Candidates(bank *types.BankProfile, kind types.ReportKind) []SourceCandidate {
	type source struct {
		url  string
		role SourceRole
	}
	var ordered []source
	switch kind {
	case types.KindQuarterly:
		ordered = []source{
			{bank.QuarterReportURL, RoleQuarterReportURL},
			{bank.ReportPage, RoleReportPage},
			{bank.Website, RoleWebsite},
		}
	default:
		ordered = []source{
			{bank.AnnualReportURL, RoleAnnualReportURL},
			{bank.ReportPage, RoleReportPage},
			{bank.Website, RoleWebsite},
		}
	}

	candidates := make([]SourceCandidate, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		if s.url == "" || seen[s.url] {
			continue
		}
		seen[s.url] = true
		candidates = append(candidates, SourceCandidate{
			URL:  s.url,
			Role: s.role,
			Rank: len(candidates) + 1,
		})
	}
	return candidates
}
