package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single retail transaction line after cleaning.
// One invoice usually spans several transactions, one per product line.
type Transaction struct {
	InvoiceDate time.Time
	InvoiceNo   string
	StockCode   string
	Description string
	CustomerID  string
	Country     string
	Hash        string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// RawRecord is a transaction line as it appears in the raw export, before
// any cleaning. CustomerID may be empty and Quantity may be negative
// (cancellations are encoded as negative-quantity rows).
type RawRecord struct {
	InvoiceDate time.Time
	InvoiceNo   string
	StockCode   string
	Description string
	CustomerID  string
	Country     string
	Quantity    int
	UnitPrice   float64
}

// GenerateHash creates a unique hash for duplicate detection. Two rows that
// agree on every raw field are the same row.
func (r *RawRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%d:%s:%.4f:%s:%s",
		r.InvoiceNo,
		r.StockCode,
		r.Description,
		r.Quantity,
		r.InvoiceDate.Format("2006-01-02 15:04:05"),
		r.UnitPrice,
		r.CustomerID,
		r.Country)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Canonical converts a cleaned raw record into its canonical form,
// deriving TotalPrice. Callers must have applied the cleaning filters
// first; Canonical does not re-validate.
func (r *RawRecord) Canonical() Transaction {
	return Transaction{
		InvoiceNo:   r.InvoiceNo,
		StockCode:   r.StockCode,
		Description: r.Description,
		Quantity:    r.Quantity,
		InvoiceDate: r.InvoiceDate,
		UnitPrice:   r.UnitPrice,
		CustomerID:  r.CustomerID,
		Country:     r.Country,
		TotalPrice:  float64(r.Quantity) * r.UnitPrice,
		Hash:        r.GenerateHash(),
	}
}
