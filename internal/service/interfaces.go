// Package service defines the interfaces between the CLI/API surfaces and
// the storage layer.
package service

import (
	"context"

	"github.com/shopspectrum/spectrum/internal/model"
)

// Store persists pipeline artifacts: the canonical transaction table and
// the derived RFM table. The store is a cache, not a source of truth; the
// pipeline must produce identical results recomputed from raw input.
type Store interface {
	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// ReplaceTransactions atomically replaces the cached canonical table.
	ReplaceTransactions(ctx context.Context, txns []model.Transaction) error

	// ListTransactions returns the cached canonical table in a stable
	// order (invoice date, then invoice number, then stock code).
	ListTransactions(ctx context.Context) ([]model.Transaction, error)

	// TransactionCount returns the number of cached canonical rows.
	TransactionCount(ctx context.Context) (int, error)

	// ReplaceRFM atomically replaces the cached RFM table.
	ReplaceRFM(ctx context.Context, records []model.RFMRecord) error

	// ListRFM returns the cached RFM table ordered by customer ID.
	ListRFM(ctx context.Context) ([]model.RFMRecord, error)

	Close() error
}
