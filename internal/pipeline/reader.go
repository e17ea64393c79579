// Package pipeline implements ingestion and cleaning of raw retail
// transaction exports into the canonical transaction table.
package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspectrum/spectrum/internal/common"
)

// Raw export column order. The header row is required and must carry these
// names (case-insensitive); extra trailing columns are rejected.
var rawHeader = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// Row is a single raw export line, fields still unparsed. Type conversion
// happens during cleaning so that a bad timestamp or quantity drops one row
// instead of aborting the whole read.
type Row struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    string
	InvoiceDate string
	UnitPrice   string
	CustomerID  string
	Country     string
}

// ReadRows reads every data row of a raw transaction CSV. The header row is
// validated; a file without the expected columns fails with ErrShapeMismatch
// rather than producing a table of garbage. A canonical artifact (the raw
// columns plus a trailing TotalPrice) is accepted too; the derived column is
// ignored and recomputed, which keeps re-cleaning a cleaned table a no-op.
func ReadRows(ctx context.Context, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", common.ErrShapeMismatch, err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A structurally broken row is malformed, not fatal.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(rec) < len(rawHeader) {
			continue
		}

		rows = append(rows, Row{
			InvoiceNo:   strings.TrimSpace(rec[0]),
			StockCode:   strings.TrimSpace(rec[1]),
			Description: strings.TrimSpace(rec[2]),
			Quantity:    strings.TrimSpace(rec[3]),
			InvoiceDate: strings.TrimSpace(rec[4]),
			UnitPrice:   strings.TrimSpace(rec[5]),
			CustomerID:  strings.TrimSpace(rec[6]),
			Country:     strings.TrimSpace(rec[7]),
		})
	}

	return rows, nil
}

func validateHeader(header []string) error {
	switch len(header) {
	case len(rawHeader):
	case len(rawHeader) + 1:
		if !strings.EqualFold(strings.TrimSpace(header[len(rawHeader)]), "TotalPrice") {
			return fmt.Errorf("%w: unexpected trailing column %q",
				common.ErrShapeMismatch, header[len(rawHeader)])
		}
	default:
		return fmt.Errorf("%w: expected %d columns, got %d",
			common.ErrShapeMismatch, len(rawHeader), len(header))
	}
	for i, want := range rawHeader {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("%w: column %d is %q, expected %q",
				common.ErrShapeMismatch, i, got, want)
		}
	}
	return nil
}
