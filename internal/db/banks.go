package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sandesh/findocs/internal/types"
)

// GetBank retrieves a bank profile by its ticker symbol.
// Returns (nil, nil) when the symbol is not in the directory.
func (db *DB) GetBank(ctx context.Context, symbol string) (*types.BankProfile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var b types.BankProfile
	err := db.pool.QueryRow(ctx,
		`SELECT id, symbol, bank_name,
		        COALESCE(website, ''), COALESCE(report_page, ''),
		        COALESCE(annual_report_url, ''), COALESCE(quarter_report_url, '')
		 FROM banks WHERE symbol = $1`,
		symbol,
	).Scan(&b.ID, &b.Symbol, &b.Name, &b.Website, &b.ReportPage, &b.AnnualReportURL, &b.QuarterReportURL)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bank %s: %w", symbol, err)
	}
	return &b, nil
}

// ListBanks retrieves every bank in the directory ordered by symbol.
func (db *DB) ListBanks(ctx context.Context) ([]types.BankProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, symbol, bank_name,
		        COALESCE(website, ''), COALESCE(report_page, ''),
		        COALESCE(annual_report_url, ''), COALESCE(quarter_report_url, '')
		 FROM banks ORDER BY symbol`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	defer rows.Close()

	var banks []types.BankProfile
	for rows.Next() {
		var b types.BankProfile
		if err := rows.Scan(&b.ID, &b.Symbol, &b.Name, &b.Website, &b.ReportPage, &b.AnnualReportURL, &b.QuarterReportURL); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, b)
	}
	return banks, nil
}
