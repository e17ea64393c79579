package recommend

import (
	"strings"
	"testing"

	"github.com/shopspectrum/spectrum/internal/model"
)

func TestCatalog_FirstSeenDescriptionWins(t *testing.T) {
	txns := []model.Transaction{
		catalogTxn("A", "White Mug"),
		catalogTxn("A", "WHITE MUG (NEW)"),
	}

	catalog := NewCatalog(txns)
	if got := catalog.Describe("A"); got != "White Mug" {
		t.Errorf("Describe(A) = %q, want first-seen description", got)
	}
}

func TestCatalog_DescribeUnknownCode(t *testing.T) {
	catalog := NewCatalog(nil)
	if got := catalog.Describe("Z"); got != model.UnknownProduct {
		t.Errorf("Describe(Z) = %q, want sentinel", got)
	}
}

func TestCatalog_CodeFor(t *testing.T) {
	txns := []model.Transaction{
		catalogTxn("A", "White Mug"),
		catalogTxn("B", "Blue Bowl"),
		catalogTxn("C", "Blue Bowl"), // shared description
	}
	catalog := NewCatalog(txns)

	code, err := catalog.CodeFor("White Mug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "A" {
		t.Errorf("CodeFor(White Mug) = %s, want A", code)
	}

	// A shared description is reported as ambiguous, not silently resolved.
	if _, err := catalog.CodeFor("Blue Bowl"); err == nil {
		t.Fatal("expected ambiguity error for shared description")
	} else if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error %q does not mention ambiguity", err)
	}

	if _, err := catalog.CodeFor("No Such Thing"); err == nil {
		t.Fatal("expected error for unknown description")
	}
}
