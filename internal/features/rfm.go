// Package features derives per-customer behavioral descriptors from the
// canonical transaction table.
package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspectrum/spectrum/internal/model"
)

// ComputeRFM derives one Recency/Frequency/Monetary record per distinct
// customer in the canonical table. Recency is measured in whole days from
// the customer's most recent purchase to asOf, which must be an explicit
// instant so a run is reproducible regardless of when it executes.
//
// Records come back sorted by customer ID. Cluster is ClusterUnlabeled;
// external labels are bound separately by the segment adapter.
func ComputeRFM(txns []model.Transaction, asOf time.Time) ([]model.RFMRecord, error) {
	if asOf.IsZero() {
		return nil, fmt.Errorf("observation instant must be set")
	}

	type acc struct {
		lastPurchase time.Time
		invoices     map[string]bool
		monetary     float64
	}

	byCustomer := make(map[string]*acc)
	for i := range txns {
		t := &txns[i]
		a, ok := byCustomer[t.CustomerID]
		if !ok {
			a = &acc{invoices: make(map[string]bool)}
			byCustomer[t.CustomerID] = a
		}
		if t.InvoiceDate.After(a.lastPurchase) {
			a.lastPurchase = t.InvoiceDate
		}
		a.invoices[t.InvoiceNo] = true
		a.monetary += t.TotalPrice
	}

	records := make([]model.RFMRecord, 0, len(byCustomer))
	for customerID, a := range byCustomer {
		records = append(records, model.RFMRecord{
			CustomerID:  customerID,
			RecencyDays: int(asOf.Sub(a.lastPurchase).Hours() / 24),
			Frequency:   len(a.invoices),
			Monetary:    a.monetary,
			Cluster:     model.ClusterUnlabeled,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CustomerID < records[j].CustomerID
	})

	return records, nil
}
