package pipeline

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/model"
)

// Timestamp layouts seen in retail exports. The first is the layout the
// upstream point-of-sale export actually emits.
var dateLayouts = []string{
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
}

// DropReport counts rows removed at each cleaning stage. Stage order is
// fixed so counts are reproducible run to run.
type DropReport struct {
	RowsRead        int
	Malformed       int
	Duplicates      int
	MissingCustomer int
	NonPositive     int
	RowsKept        int
}

// Dropped returns the total number of rows removed.
func (r DropReport) Dropped() int {
	return r.Malformed + r.Duplicates + r.MissingCustomer + r.NonPositive
}

// Clean applies the cleaning stages, in order, to a raw row set and returns
// the canonical transaction table plus the per-stage drop counts:
//
//  1. parse types (timestamp, quantity, price); unparseable rows are
//     dropped and counted, never fatal
//  2. remove exact duplicate rows
//  3. drop rows with a missing customer identifier
//  4. drop rows with non-positive quantity or unit price
//  5. derive TotalPrice for every surviving row
//
// Clean is pure: identical input always yields an identical table, and
// re-cleaning an already-clean table drops nothing.
func Clean(rows []Row) ([]model.Transaction, DropReport) {
	report := DropReport{RowsRead: len(rows)}

	seen := make(map[string]bool, len(rows))
	txns := make([]model.Transaction, 0, len(rows))

	for _, row := range rows {
		raw, err := parseRow(row)
		if err != nil {
			report.Malformed++
			slog.Debug("Dropping malformed row",
				"invoice", row.InvoiceNo,
				"error", err)
			continue
		}

		hash := raw.GenerateHash()
		if seen[hash] {
			report.Duplicates++
			continue
		}
		seen[hash] = true

		if raw.CustomerID == "" {
			report.MissingCustomer++
			continue
		}

		if raw.Quantity <= 0 || raw.UnitPrice <= 0 {
			report.NonPositive++
			continue
		}

		txns = append(txns, raw.Canonical())
	}

	report.RowsKept = len(txns)
	return txns, report
}

func parseRow(row Row) (*model.RawRecord, error) {
	date, err := parseTimestamp(row.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}

	qty, err := strconv.Atoi(row.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: bad quantity %q", common.ErrMalformedInput, row.Quantity)
	}

	price, err := strconv.ParseFloat(row.UnitPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad unit price %q", common.ErrMalformedInput, row.UnitPrice)
	}

	return &model.RawRecord{
		InvoiceNo:   row.InvoiceNo,
		StockCode:   row.StockCode,
		Description: row.Description,
		Quantity:    qty,
		InvoiceDate: date,
		UnitPrice:   price,
		CustomerID:  row.CustomerID,
		Country:     row.Country,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
