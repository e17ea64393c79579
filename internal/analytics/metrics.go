package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspectrum/spectrum/internal/common"
)

// TrendPoint is one month of revenue in the sales trend.
type TrendPoint struct {
	Month time.Time // first instant of the calendar month, UTC
	Total float64
}

// ItemRank is one product in a top-sellers ranking.
type ItemRank struct {
	StockCode   string
	Description string
	Quantity    int
}

// TotalRevenue returns the sum of TotalPrice over the view. An empty view
// has zero revenue; that is a real observed value here because the view
// itself loaded successfully.
func (d *Dataset) TotalRevenue() float64 {
	var total float64
	for i := range d.txns {
		total += d.txns[i].TotalPrice
	}
	return total
}

// OrderCount returns the number of distinct invoices in the view.
func (d *Dataset) OrderCount() int {
	invoices := make(map[string]bool)
	for i := range d.txns {
		invoices[d.txns[i].InvoiceNo] = true
	}
	return len(invoices)
}

// AverageOrderValue returns revenue per distinct invoice. A view with no
// orders has no defined average; that case fails with ErrEmptyDataset
// rather than fabricating a zero.
func (d *Dataset) AverageOrderValue() (float64, error) {
	orders := d.OrderCount()
	if orders == 0 {
		return 0, fmt.Errorf("%w: average order value over zero orders", common.ErrEmptyDataset)
	}
	return d.TotalRevenue() / float64(orders), nil
}

// DistinctCustomers returns the number of distinct customers in the view.
func (d *Dataset) DistinctCustomers() int {
	customers := make(map[string]bool)
	for i := range d.txns {
		customers[d.txns[i].CustomerID] = true
	}
	return len(customers)
}

// MonthlyTrend returns revenue per calendar month in chronological order.
// Months with no transactions are omitted, so consumers must not assume
// contiguous months.
func (d *Dataset) MonthlyTrend() []TrendPoint {
	totals := make(map[time.Time]float64)
	for i := range d.txns {
		t := d.txns[i].InvoiceDate
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[month] += d.txns[i].TotalPrice
	}

	points := make([]TrendPoint, 0, len(totals))
	for month, total := range totals {
		points = append(points, TrendPoint{Month: month, Total: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})
	return points
}

// TopItems returns up to n products ranked by total quantity sold,
// descending, with ties broken by ascending description for a stable order.
func (d *Dataset) TopItems(n int) []ItemRank {
	if n <= 0 {
		return []ItemRank{}
	}

	type item struct {
		description string
		quantity    int
	}
	byCode := make(map[string]*item)
	for i := range d.txns {
		t := &d.txns[i]
		it, ok := byCode[t.StockCode]
		if !ok {
			it = &item{description: t.Description}
			byCode[t.StockCode] = it
		}
		it.quantity += t.Quantity
	}

	ranks := make([]ItemRank, 0, len(byCode))
	for code, it := range byCode {
		ranks = append(ranks, ItemRank{
			StockCode:   code,
			Description: it.description,
			Quantity:    it.quantity,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return ranks[i].Description < ranks[j].Description
	})

	if n < len(ranks) {
		ranks = ranks[:n]
	}
	return ranks
}
