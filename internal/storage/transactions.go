package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspectrum/spectrum/internal/model"
)

// ReplaceTransactions atomically replaces the cached canonical table. The
// cache either reflects one complete pipeline run or the previous one,
// never a mix.
func (s *SQLiteStore) ReplaceTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(txns); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(hash, invoice_no, stock_code, description, quantity,
			 invoice_date, unit_price, customer_id, country, total_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		t := &txns[i]
		if _, err := stmt.ExecContext(ctx,
			t.Hash, t.InvoiceNo, t.StockCode, t.Description, t.Quantity,
			t.InvoiceDate.UTC(), t.UnitPrice, t.CustomerID, t.Country,
			t.TotalPrice); err != nil {
			return fmt.Errorf("failed to insert transaction %s/%s: %w", t.InvoiceNo, t.StockCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// ListTransactions returns the cached canonical table in a stable order.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, invoice_no, stock_code, description, quantity,
		       invoice_date, unit_price, customer_id, country, total_price
		FROM transactions
		ORDER BY invoice_date, invoice_no, stock_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var date time.Time
		if err := rows.Scan(
			&t.Hash, &t.InvoiceNo, &t.StockCode, &t.Description, &t.Quantity,
			&date, &t.UnitPrice, &t.CustomerID, &t.Country, &t.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.InvoiceDate = date.UTC()
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// TransactionCount returns the number of cached canonical rows.
func (s *SQLiteStore) TransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
