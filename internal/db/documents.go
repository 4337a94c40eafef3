package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sandesh/findocs/internal/types"
)

// FindDocument looks up a cached report record for a bank, trying each
// fiscal-year representation in order (BS first, then AD). The quarter must
// match exactly: NULL for annual reports. Returns (nil, nil) on a cache miss.
func (db *DB) FindDocument(ctx context.Context, bankID int64, fiscalYears []string, kind types.ReportKind, quarter *types.Quarter) (*types.ReportRecord, error) {
	for _, fy := range fiscalYears {
		rec, err := db.findOne(ctx, bankID, fy, kind, quarter)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

func (db *DB) findOne(ctx context.Context, bankID int64, fiscalYear string, kind types.ReportKind, quarter *types.Quarter) (*types.ReportRecord, error) {
	query := `SELECT id, bank_id, bank_symbol, pdf_url, fiscal_year, report_type, quarter, scraped_at, method
	          FROM financial_documents
	          WHERE bank_id = $1 AND fiscal_year = $2 AND report_type = $3`
	args := []any{bankID, fiscalYear, kind}

	if quarter != nil {
		query += ` AND quarter = $4`
		args = append(args, *quarter)
	} else {
		query += ` AND quarter IS NULL`
	}

	// Oldest row wins so concurrent duplicate scrapes never change reads.
	query += ` ORDER BY scraped_at ASC LIMIT 1`

	var rec types.ReportRecord
	err := db.pool.QueryRow(ctx, query, args...).Scan(
		&rec.ID, &rec.BankID, &rec.BankSymbol, &rec.PDFURL,
		&rec.FiscalYear, &rec.ReportType, &rec.Quarter, &rec.ScrapedAt, &rec.Method,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &rec, nil
}

// InsertDocument persists a newly scraped report record. Records are
// append-only; repeated scrapes of the same key add rows rather than update.
func (db *DB) InsertDocument(ctx context.Context, rec *types.ReportRecord) error {
	if rec.ScrapedAt.IsZero() {
		rec.ScrapedAt = time.Now().UTC()
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO financial_documents (bank_id, bank_symbol, pdf_url, fiscal_year, report_type, quarter, scraped_at, method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		rec.BankID, rec.BankSymbol, rec.PDFURL, rec.FiscalYear, rec.ReportType, rec.Quarter, rec.ScrapedAt, rec.Method,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// ListDocuments retrieves recent records for a bank, newest first.
func (db *DB) ListDocuments(ctx context.Context, bankID int64, limit int) ([]types.ReportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, bank_id, bank_symbol, pdf_url, fiscal_year, report_type, quarter, scraped_at, method
		 FROM financial_documents WHERE bank_id = $1
		 ORDER BY scraped_at DESC LIMIT $2`,
		bankID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var records []types.ReportRecord
	for rows.Next() {
		var rec types.ReportRecord
		if err := rows.Scan(&rec.ID, &rec.BankID, &rec.BankSymbol, &rec.PDFURL,
			&rec.FiscalYear, &rec.ReportType, &rec.Quarter, &rec.ScrapedAt, &rec.Method); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
