package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspectrum/spectrum/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRFMRecord   = errors.New("invalid rfm record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates canonical invariants before rows reach the
// cache: positive quantity and price, non-empty customer, consistent
// derived total.
func validateTransactions(txns []model.Transaction) error {
	if txns == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}

	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	switch {
	case txn.InvoiceNo == "":
		return fmt.Errorf("%w: missing invoice number", ErrInvalidTransaction)
	case txn.StockCode == "":
		return fmt.Errorf("%w: missing stock code", ErrInvalidTransaction)
	case txn.CustomerID == "":
		return fmt.Errorf("%w: missing customer id", ErrInvalidTransaction)
	case txn.Quantity <= 0:
		return fmt.Errorf("%w: quantity %d is not positive", ErrInvalidTransaction, txn.Quantity)
	case txn.UnitPrice <= 0:
		return fmt.Errorf("%w: unit price %f is not positive", ErrInvalidTransaction, txn.UnitPrice)
	case txn.InvoiceDate.IsZero():
		return fmt.Errorf("%w: missing invoice date", ErrInvalidTransaction)
	case txn.TotalPrice != float64(txn.Quantity)*txn.UnitPrice:
		return fmt.Errorf("%w: total price %f does not equal quantity*unit_price", ErrInvalidTransaction, txn.TotalPrice)
	case txn.Hash == "":
		return fmt.Errorf("%w: missing hash", ErrInvalidTransaction)
	}
	return nil
}

func validateRFMRecords(records []model.RFMRecord) error {
	if records == nil {
		return fmt.Errorf("%w: rfm records", ErrNilParameter)
	}

	for i, r := range records {
		switch {
		case r.CustomerID == "":
			return fmt.Errorf("%w: record %d missing customer id", ErrInvalidRFMRecord, i)
		case r.RecencyDays < 0:
			return fmt.Errorf("%w: record %d has negative recency", ErrInvalidRFMRecord, i)
		case r.Frequency < 0:
			return fmt.Errorf("%w: record %d has negative frequency", ErrInvalidRFMRecord, i)
		case r.Monetary < 0:
			return fmt.Errorf("%w: record %d has negative monetary value", ErrInvalidRFMRecord, i)
		}
	}
	return nil
}
