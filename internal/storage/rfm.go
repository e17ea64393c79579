package storage

import (
	"context"
	"fmt"

	"github.com/shopspectrum/spectrum/internal/model"
)

// ReplaceRFM atomically replaces the cached RFM table.
func (s *SQLiteStore) ReplaceRFM(ctx context.Context, records []model.RFMRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRFMRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rfm`); err != nil {
		return fmt.Errorf("failed to clear rfm table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rfm (customer_id, recency_days, frequency, monetary, cluster)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.CustomerID, r.RecencyDays, r.Frequency, r.Monetary, r.Cluster); err != nil {
			return fmt.Errorf("failed to insert rfm record for %s: %w", r.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rfm records: %w", err)
	}
	return nil
}

// ListRFM returns the cached RFM table ordered by customer ID.
func (s *SQLiteStore) ListRFM(ctx context.Context) ([]model.RFMRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, recency_days, frequency, monetary, cluster
		FROM rfm
		ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rfm table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.RFMRecord
	for rows.Next() {
		var r model.RFMRecord
		if err := rows.Scan(
			&r.CustomerID, &r.RecencyDays, &r.Frequency, &r.Monetary, &r.Cluster); err != nil {
			return nil, fmt.Errorf("failed to scan rfm record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rfm records: %w", err)
	}

	return records, nil
}
