// Package analytics answers aggregate metric queries over a filtered view
// of the canonical transaction table.
package analytics

import (
	"sort"

	"github.com/shopspectrum/spectrum/internal/model"
)

// AllCountries is the filter value that selects the whole table.
const AllCountries = "All"

// Dataset is an immutable view over canonical transactions. Filtering
// produces a new view sharing the underlying rows; nothing is mutated after
// construction, so a Dataset is safe for concurrent queries.
type Dataset struct {
	txns []model.Transaction
}

// NewDataset wraps a canonical transaction table. The slice is not copied;
// callers must not modify it afterwards.
func NewDataset(txns []model.Transaction) *Dataset {
	return &Dataset{txns: txns}
}

// Len returns the number of transactions in the view.
func (d *Dataset) Len() int {
	return len(d.txns)
}

// FilterCountry returns the view restricted to one country. An empty string
// or AllCountries returns the receiver unchanged. Filtering to a country
// with no transactions yields a valid empty view, not an error.
func (d *Dataset) FilterCountry(country string) *Dataset {
	if country == "" || country == AllCountries {
		return d
	}

	filtered := make([]model.Transaction, 0)
	for i := range d.txns {
		if d.txns[i].Country == country {
			filtered = append(filtered, d.txns[i])
		}
	}
	return &Dataset{txns: filtered}
}

// Countries returns the distinct countries in the view, sorted.
func (d *Dataset) Countries() []string {
	seen := make(map[string]bool)
	for i := range d.txns {
		seen[d.txns[i].Country] = true
	}

	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}
