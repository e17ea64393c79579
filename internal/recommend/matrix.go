// Package recommend serves top-K item-to-item recommendations from a
// precomputed similarity matrix. The matrix is produced by an offline batch
// job and is read-only here.
package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspectrum/spectrum/internal/common"
)

// SimilarityMatrix is a square matrix of pairwise product similarity
// scores, indexed by stock code on both axes. Scores are cosine
// similarities, so they fall in [-1, 1] and the diagonal is maximal.
type SimilarityMatrix struct {
	index map[string]int
	codes []string
	cells [][]float64
}

// LoadMatrix reads a similarity artifact: a CSV whose header carries the
// column stock codes and whose first field per row is the row stock code.
// Startup fails fast on a missing or misshapen artifact; a broken matrix
// must never look like an empty catalog.
func LoadMatrix(path string) (*SimilarityMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.ArtifactError(common.ErrArtifactMissing, path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, common.ArtifactError(common.ErrShapeMismatch, path, err)
	}
	return m, nil
}

// ReadMatrix parses and validates a similarity matrix from CSV.
func ReadMatrix(r io.Reader) (*SimilarityMatrix, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("matrix header has %d columns", len(header))
	}

	// First header field is the index-column label (often empty).
	colCodes := make([]string, len(header)-1)
	for i, code := range header[1:] {
		colCodes[i] = strings.TrimSpace(code)
	}

	index := make(map[string]int, len(colCodes))
	cells := make([][]float64, 0, len(colCodes))
	rowCodes := make([]string, 0, len(colCodes))

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read matrix row: %w", err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d",
				len(rowCodes), len(rec), len(header))
		}

		code := strings.TrimSpace(rec[0])
		if code == "" {
			return nil, fmt.Errorf("row %d has an empty stock code", len(rowCodes))
		}
		if _, dup := index[code]; dup {
			return nil, fmt.Errorf("duplicate stock code %s", code)
		}

		row := make([]float64, len(rec)-1)
		for i, cell := range rec[1:] {
			score, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("bad score at (%s, %s): %q", code, colCodes[i], cell)
			}
			row[i] = score
		}

		index[code] = len(rowCodes)
		rowCodes = append(rowCodes, code)
		cells = append(cells, row)
	}

	if len(rowCodes) != len(colCodes) {
		return nil, fmt.Errorf("matrix is %dx%d, expected square", len(rowCodes), len(colCodes))
	}
	for i, code := range colCodes {
		if rowCodes[i] != code {
			return nil, fmt.Errorf("row/column label mismatch at %d: %q vs %q",
				i, rowCodes[i], code)
		}
	}

	return &SimilarityMatrix{
		index: index,
		codes: rowCodes,
		cells: cells,
	}, nil
}

// Size returns the matrix dimension (the number of known products).
func (m *SimilarityMatrix) Size() int {
	return len(m.codes)
}

// Codes returns the stock codes indexing the matrix, in artifact order.
func (m *SimilarityMatrix) Codes() []string {
	out := make([]string, len(m.codes))
	copy(out, m.codes)
	return out
}

// Contains reports whether the matrix has a row for the given stock code.
func (m *SimilarityMatrix) Contains(code string) bool {
	_, ok := m.index[code]
	return ok
}

// Row returns the similarity scores between code and every product,
// including itself, in artifact order.
func (m *SimilarityMatrix) Row(code string) ([]float64, error) {
	i, ok := m.index[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownProduct, code)
	}
	out := make([]float64, len(m.cells[i]))
	copy(out, m.cells[i])
	return out, nil
}
