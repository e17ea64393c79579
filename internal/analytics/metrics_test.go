package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/model"
)

func txn(invoice, code, desc, customer, country string, qty int, price float64, date time.Time) model.Transaction {
	return model.Transaction{
		InvoiceNo:   invoice,
		StockCode:   code,
		Description: desc,
		CustomerID:  customer,
		Country:     country,
		Quantity:    qty,
		UnitPrice:   price,
		InvoiceDate: date,
		TotalPrice:  float64(qty) * price,
	}
}

func scenarioDataset() *Dataset {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	return NewDataset([]model.Transaction{
		txn("1", "A", "White Mug", "C1", "France", 2, 5.0, jan1),
		txn("2", "A", "White Mug", "C1", "France", 1, 5.0, feb1),
	})
}

func TestMetrics_Scenario(t *testing.T) {
	d := scenarioDataset()

	if got := d.TotalRevenue(); got != 15.0 {
		t.Errorf("TotalRevenue = %f, want 15.0", got)
	}
	if got := d.OrderCount(); got != 2 {
		t.Errorf("OrderCount = %d, want 2", got)
	}
	if got := d.DistinctCustomers(); got != 1 {
		t.Errorf("DistinctCustomers = %d, want 1", got)
	}

	aov, err := d.AverageOrderValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aov != 7.5 {
		t.Errorf("AverageOrderValue = %f, want 7.5", aov)
	}
}

func TestMetrics_EmptyFilterDegradation(t *testing.T) {
	view := scenarioDataset().FilterCountry("Atlantis")

	if got := view.TotalRevenue(); got != 0 {
		t.Errorf("TotalRevenue = %f, want 0", got)
	}
	if got := view.OrderCount(); got != 0 {
		t.Errorf("OrderCount = %d, want 0", got)
	}
	if got := view.DistinctCustomers(); got != 0 {
		t.Errorf("DistinctCustomers = %d, want 0", got)
	}
	if got := view.MonthlyTrend(); len(got) != 0 {
		t.Errorf("MonthlyTrend = %v, want empty", got)
	}
	if got := view.TopItems(5); len(got) != 0 {
		t.Errorf("TopItems = %v, want empty", got)
	}

	aov, err := view.AverageOrderValue()
	if !errors.Is(err, common.ErrEmptyDataset) {
		t.Fatalf("AverageOrderValue err = %v, want ErrEmptyDataset", err)
	}
	if math.IsNaN(aov) {
		t.Error("AverageOrderValue returned NaN instead of a typed error")
	}
}

func TestFilterCountry(t *testing.T) {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		txn("1", "A", "Mug", "C1", "France", 1, 1.0, jan1),
		txn("2", "B", "Bowl", "C2", "Spain", 1, 2.0, jan1),
		txn("3", "C", "Vase", "C3", "France", 1, 3.0, jan1),
	})

	tests := []struct {
		name    string
		country string
		wantLen int
	}{
		{name: "one country", country: "France", wantLen: 2},
		{name: "all sentinel", country: AllCountries, wantLen: 3},
		{name: "empty string selects all", country: "", wantLen: 3},
		{name: "unknown country empty view", country: "Atlantis", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.FilterCountry(tt.country).Len(); got != tt.wantLen {
				t.Errorf("len = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestCountries(t *testing.T) {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		txn("1", "A", "Mug", "C1", "Spain", 1, 1.0, jan1),
		txn("2", "B", "Bowl", "C2", "France", 1, 2.0, jan1),
		txn("3", "C", "Vase", "C3", "Spain", 1, 3.0, jan1),
	})

	got := d.Countries()
	want := []string{"France", "Spain"}
	if len(got) != len(want) {
		t.Fatalf("Countries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Countries = %v, want %v", got, want)
		}
	}
}

func TestMonthlyTrend_GapsOmitted(t *testing.T) {
	d := NewDataset([]model.Transaction{
		txn("1", "A", "Mug", "C1", "France", 1, 10.0, time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC)),
		txn("2", "A", "Mug", "C1", "France", 1, 5.0, time.Date(2023, 1, 20, 9, 0, 0, 0, time.UTC)),
		// February has no transactions.
		txn("3", "B", "Bowl", "C2", "France", 1, 7.0, time.Date(2023, 3, 2, 9, 0, 0, 0, time.UTC)),
	})

	trend := d.MonthlyTrend()
	if len(trend) != 2 {
		t.Fatalf("got %d trend points, want 2 (gap month omitted)", len(trend))
	}

	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	if !trend[0].Month.Equal(jan) || trend[0].Total != 15.0 {
		t.Errorf("trend[0] = %+v, want {%v 15.0}", trend[0], jan)
	}
	if !trend[1].Month.Equal(mar) || trend[1].Total != 7.0 {
		t.Errorf("trend[1] = %+v, want {%v 7.0}", trend[1], mar)
	}
}

func TestTopItems(t *testing.T) {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDataset([]model.Transaction{
		txn("1", "A", "Zebra Mug", "C1", "France", 3, 1.0, jan1),
		txn("2", "B", "Apple Bowl", "C1", "France", 3, 1.0, jan1),
		txn("3", "C", "Vase", "C1", "France", 7, 1.0, jan1),
		txn("4", "C", "Vase", "C2", "France", 2, 1.0, jan1),
	})

	items := d.TopItems(2)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	// C leads on quantity; A and B tie at 3 and resolve by description.
	if items[0].StockCode != "C" || items[0].Quantity != 9 {
		t.Errorf("items[0] = %+v, want C with quantity 9", items[0])
	}
	if items[1].StockCode != "B" {
		t.Errorf("items[1] = %+v, want B (Apple Bowl wins the tie)", items[1])
	}

	if got := d.TopItems(0); len(got) != 0 {
		t.Errorf("TopItems(0) = %v, want empty", got)
	}
	if got := d.TopItems(100); len(got) != 3 {
		t.Errorf("TopItems(100) returned %d items, want 3 (no padding)", len(got))
	}
}
