package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandesh/findocs/internal/resolver"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list SYMBOL",
	Short: "List cached report records for a bank",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of records to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	deps, err := buildDeps(ctx, false, 0, false, false)
	if err != nil {
		return err
	}
	defer deps.close()

	bank, err := deps.db.GetBank(ctx, args[0])
	if err != nil {
		return err
	}
	if bank == nil {
		return &resolver.BankNotFoundError{Symbol: args[0]}
	}

	records, err := deps.db.ListDocuments(ctx, bank.ID, listLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No cached reports for %s.\n", bank.Symbol)
		return nil
	}

	fmt.Printf("Cached reports for %s (%s):\n", bank.Symbol, bank.Name)
	for _, rec := range records {
		quarter := ""
		if rec.Quarter != nil {
			quarter = " " + string(*rec.Quarter)
		}
		fmt.Printf("  %s %s%s  %s  (scraped %s, %s)\n",
			rec.FiscalYear, rec.ReportType, quarter, rec.PDFURL,
			rec.ScrapedAt.Format("2006-01-02"), rec.Method)
	}
	return nil
}
