package recommend

import (
	"fmt"
	"sort"

	"github.com/shopspectrum/spectrum/internal/model"
)

// Engine answers top-K similar-product queries against the precomputed
// similarity matrix. It holds only read-only state, so a single Engine is
// safe for concurrent queries.
type Engine struct {
	matrix  *SimilarityMatrix
	catalog *Catalog
}

// NewEngine creates a recommendation engine over a loaded matrix and the
// product identity mapping derived from the canonical table.
func NewEngine(matrix *SimilarityMatrix, catalog *Catalog) (*Engine, error) {
	if matrix == nil {
		return nil, fmt.Errorf("similarity matrix is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog is required")
	}
	return &Engine{matrix: matrix, catalog: catalog}, nil
}

// Recommend returns up to k products most similar to the given stock code,
// ordered by descending score with ties broken by ascending stock code so
// results are stable across runs. The query product is never included. A k
// larger than the catalog returns every other product; k <= 0 returns an
// empty result.
func (e *Engine) Recommend(code string, k int) ([]model.Recommendation, error) {
	scores, err := e.matrix.Row(code)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []model.Recommendation{}, nil
	}

	codes := e.matrix.codes
	recs := make([]model.Recommendation, 0, len(codes)-1)
	for i, other := range codes {
		if other == code {
			continue
		}
		recs = append(recs, model.Recommendation{
			StockCode: other,
			Score:     scores[i],
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].StockCode < recs[j].StockCode
	})

	if k < len(recs) {
		recs = recs[:k]
	}

	for i := range recs {
		recs[i].Description = e.catalog.Describe(recs[i].StockCode)
	}

	return recs, nil
}

// Describe resolves a stock code through the engine's catalog.
func (e *Engine) Describe(code string) string {
	return e.catalog.Describe(code)
}

// Known reports whether a stock code can be queried.
func (e *Engine) Known(code string) bool {
	return e.matrix.Contains(code)
}
