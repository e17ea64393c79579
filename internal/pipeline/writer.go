package pipeline

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspectrum/spectrum/internal/model"
)

// canonicalHeader is the raw header plus the derived TotalPrice column,
// matching the shape of the cached canonical artifact.
var canonicalHeader = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country", "TotalPrice",
}

// WriteCanonical writes the canonical transaction table as CSV.
func WriteCanonical(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(canonicalHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range txns {
		t := &txns[i]
		rec := []string{
			t.InvoiceNo,
			t.StockCode,
			t.Description,
			strconv.Itoa(t.Quantity),
			t.InvoiceDate.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(t.UnitPrice, 'f', -1, 64),
			t.CustomerID,
			t.Country,
			strconv.FormatFloat(t.TotalPrice, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCanonicalFile writes the canonical table to a file, gzip-compressed
// when the path ends in .gz.
func WriteCanonicalFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer func() { _ = gz.Close() }()
		w = gz
	}

	if err := WriteCanonical(w, txns); err != nil {
		return err
	}
	return nil
}
