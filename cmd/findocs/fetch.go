package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandesh/findocs/internal/types"
)

var (
	fetchKind       string
	fetchQuarter    string
	fetchPacing     time.Duration
	fetchUseBrowser bool
	fetchVerbose    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch SYMBOL FISCAL_YEAR",
	Short: "Resolve one report PDF link and print it as JSON",
	Long: `Resolve a single report PDF link for a bank and fiscal year, checking the
database cache first and scraping the bank's websites on a miss.

Examples:
  findocs fetch ADBL 2079/80
  findocs fetch CZBIL 2022/23 --type quarterly --quarter Q2`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchKind, "type", "annual", "Report type: annual or quarterly")
	fetchCmd.Flags().StringVar(&fetchQuarter, "quarter", "", "Quarter (Q1-Q4) for quarterly reports")
	fetchCmd.Flags().DurationVar(&fetchPacing, "pacing-delay", 2*time.Second, "Delay between scrape attempts against the same bank")
	fetchCmd.Flags().BoolVar(&fetchUseBrowser, "use-browser", true, "Fall back to a headless browser for JavaScript-heavy pages")
	fetchCmd.Flags().BoolVar(&fetchVerbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	deps, err := buildDeps(ctx, true, fetchPacing, fetchUseBrowser, fetchVerbose)
	if err != nil {
		return err
	}
	defer deps.close()

	query := types.ReportQuery{
		BankSymbol: args[0],
		FiscalYear: args[1],
		Kind:       types.ReportKind(fetchKind),
		Quarter:    types.Quarter(fetchQuarter),
	}

	res, err := deps.resolver.Resolve(ctx, query)
	if err != nil {
		return err
	}

	out := map[string]any{
		"bank_symbol": res.Record.BankSymbol,
		"bank_name":   res.BankName,
		"fiscal_year": res.Record.FiscalYear,
		"report_type": res.Record.ReportType,
		"pdf_url":     res.Record.PDFURL,
		"source":      res.Source,
	}
	if res.Record.Quarter != nil {
		out["quarter"] = *res.Record.Quarter
	}
	if res.Warning != "" {
		out["warning"] = res.Warning
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
