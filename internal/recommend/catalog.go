package recommend

import (
	"fmt"
	"sort"

	"github.com/shopspectrum/spectrum/internal/model"
)

// Catalog maps stock codes to display descriptions and back. The canonical
// table can associate several descriptions with one code; the catalog keeps
// the first seen. The reverse direction can be genuinely ambiguous (two
// codes sharing one description), so CodeFor reports ambiguity explicitly
// instead of silently picking a winner. Everything else in the system is
// keyed by stock code; descriptions are display-only.
type Catalog struct {
	descriptions map[string]string
	codes        map[string][]string
}

// NewCatalog derives the product identity mapping from the canonical table.
func NewCatalog(txns []model.Transaction) *Catalog {
	c := &Catalog{
		descriptions: make(map[string]string),
		codes:        make(map[string][]string),
	}

	for i := range txns {
		t := &txns[i]
		if t.Description == "" {
			continue
		}
		if _, seen := c.descriptions[t.StockCode]; seen {
			continue
		}
		c.descriptions[t.StockCode] = t.Description
		c.codes[t.Description] = append(c.codes[t.Description], t.StockCode)
	}

	for desc := range c.codes {
		sort.Strings(c.codes[desc])
	}

	return c
}

// Describe resolves a stock code to its display description, falling back
// to the UnknownProduct sentinel so one missing label never hides a result.
func (c *Catalog) Describe(code string) string {
	if desc, ok := c.descriptions[code]; ok {
		return desc
	}
	return model.UnknownProduct
}

// CodeFor resolves a description back to its stock code. It fails when the
// description is unknown or shared by multiple codes.
func (c *Catalog) CodeFor(description string) (string, error) {
	codes, ok := c.codes[description]
	if !ok || len(codes) == 0 {
		return "", fmt.Errorf("no stock code for description %q", description)
	}
	if len(codes) > 1 {
		return "", fmt.Errorf("description %q is ambiguous across codes %v", description, codes)
	}
	return codes[0], nil
}

// Len returns the number of distinct stock codes in the catalog.
func (c *Catalog) Len() int {
	return len(c.descriptions)
}
