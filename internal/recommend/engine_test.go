package recommend

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/model"
)

func testEngine(t *testing.T, matrixCSV string, txns []model.Transaction) *Engine {
	t.Helper()

	matrix, err := ReadMatrix(strings.NewReader(matrixCSV))
	if err != nil {
		t.Fatalf("failed to read matrix: %v", err)
	}
	engine, err := NewEngine(matrix, NewCatalog(txns))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

func catalogTxn(code, description string) model.Transaction {
	return model.Transaction{
		InvoiceNo:   "1",
		StockCode:   code,
		Description: description,
		CustomerID:  "C1",
		Quantity:    1,
		UnitPrice:   1,
		TotalPrice:  1,
		InvoiceDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEngineRecommend(t *testing.T) {
	const matrixCSV = ",A,B,C\nA,1.0,0.8,0.2\nB,0.8,1.0,0.5\nC,0.2,0.5,1.0\n"
	txns := []model.Transaction{
		catalogTxn("A", "White Mug"),
		catalogTxn("B", "Blue Bowl"),
		catalogTxn("C", "Red Vase"),
	}

	tests := []struct {
		name      string
		code      string
		k         int
		wantCodes []string
		wantErr   error
	}{
		{
			name:      "top one",
			code:      "A",
			k:         1,
			wantCodes: []string{"B"},
		},
		{
			name:      "top two ordered by score",
			code:      "A",
			k:         2,
			wantCodes: []string{"B", "C"},
		},
		{
			name:      "k beyond catalog returns all others",
			code:      "A",
			k:         10,
			wantCodes: []string{"B", "C"},
		},
		{
			name:      "zero k returns empty",
			code:      "A",
			k:         0,
			wantCodes: []string{},
		},
		{
			name:    "unknown product",
			code:    "Z",
			k:       5,
			wantErr: common.ErrUnknownProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := testEngine(t, matrixCSV, txns)

			recs, err := engine.Recommend(tt.code, tt.k)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(recs) != len(tt.wantCodes) {
				t.Fatalf("got %d recommendations, want %d", len(recs), len(tt.wantCodes))
			}
			for i, want := range tt.wantCodes {
				if recs[i].StockCode != want {
					t.Errorf("recommendation %d = %s, want %s", i, recs[i].StockCode, want)
				}
			}
		})
	}
}

func TestEngineRecommend_Scenario(t *testing.T) {
	// Row A = [1.0, 0.8, 0.2] against {A, B, C}: the single best match for
	// A is B at 0.8.
	engine := testEngine(t,
		",A,B,C\nA,1.0,0.8,0.2\nB,0.8,1.0,0.5\nC,0.2,0.5,1.0\n",
		[]model.Transaction{catalogTxn("A", "White Mug"), catalogTxn("B", "Blue Bowl")})

	recs, err := engine.Recommend("A", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].StockCode != "B" || recs[0].Score != 0.8 {
		t.Fatalf("recommend(A, 1) = %+v, want [(B, 0.8)]", recs)
	}
}

func TestEngineRecommend_ExcludesSelf(t *testing.T) {
	engine := testEngine(t,
		",A,B,C\nA,1.0,0.8,0.2\nB,0.8,1.0,0.5\nC,0.2,0.5,1.0\n", nil)

	recs, err := engine.Recommend("B", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range recs {
		if rec.StockCode == "B" {
			t.Error("query product appeared in its own recommendations")
		}
	}
}

func TestEngineRecommend_TieBreakByCode(t *testing.T) {
	// B, C and D all score 0.5 against A; ties resolve by ascending code.
	engine := testEngine(t,
		",A,D,C,B\nA,1.0,0.5,0.5,0.5\nD,0.5,1.0,0.1,0.1\nC,0.5,0.1,1.0,0.1\nB,0.5,0.1,0.1,1.0\n", nil)

	recs, err := engine.Recommend("A", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{recs[0].StockCode, recs[1].StockCode, recs[2].StockCode}
	want := []string{"B", "C", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie-break order = %v, want %v", got, want)
		}
	}
}

func TestEngineRecommend_Deterministic(t *testing.T) {
	engine := testEngine(t,
		",A,B,C\nA,1.0,0.5,0.5\nB,0.5,1.0,0.2\nC,0.5,0.2,1.0\n", nil)

	first, err := engine.Recommend("A", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := engine.Recommend("A", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
			}
		}
	}
}

func TestEngineRecommend_UnknownDescriptionSentinel(t *testing.T) {
	// C has no description in the canonical table; its recommendation
	// still appears, labeled with the sentinel.
	engine := testEngine(t,
		",A,B,C\nA,1.0,0.2,0.8\nB,0.2,1.0,0.5\nC,0.8,0.5,1.0\n",
		[]model.Transaction{catalogTxn("A", "White Mug"), catalogTxn("B", "Blue Bowl")})

	recs, err := engine.Recommend("A", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].StockCode != "C" {
		t.Fatalf("top recommendation = %s, want C", recs[0].StockCode)
	}
	if recs[0].Description != model.UnknownProduct {
		t.Errorf("description = %q, want sentinel %q", recs[0].Description, model.UnknownProduct)
	}
}
