// Package segment binds externally computed cluster labels onto the RFM
// table. The clustering itself happens in an offline batch job; this
// adapter only consumes its output artifact.
package segment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/model"
)

// Assignments maps customer IDs to their externally assigned cluster label.
type Assignments map[string]int

// LoadAssignments reads a cluster assignment artifact: a CSV with a
// CustomerID column and a Cluster column (extra columns are ignored, so the
// combined rfm.csv artifact works too).
func LoadAssignments(path string) (Assignments, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.ArtifactError(common.ErrArtifactMissing, path, err)
	}
	defer func() { _ = f.Close() }()

	assignments, err := ReadAssignments(f)
	if err != nil {
		return nil, common.ArtifactError(common.ErrShapeMismatch, path, err)
	}
	return assignments, nil
}

// ReadAssignments parses cluster assignments from CSV.
func ReadAssignments(r io.Reader) (Assignments, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	customerCol, clusterCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "customerid", "customer_id":
			customerCol = i
		case "cluster":
			clusterCol = i
		}
	}
	if customerCol < 0 || clusterCol < 0 {
		return nil, fmt.Errorf("missing CustomerID or Cluster column in %v", header)
	}

	assignments := make(Assignments)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(rec) <= customerCol || len(rec) <= clusterCol {
			continue
		}

		customerID := strings.TrimSpace(rec[customerCol])
		raw := strings.TrimSpace(rec[clusterCol])
		if customerID == "" || raw == "" {
			continue
		}

		// Cluster labels sometimes arrive float-formatted ("2.0").
		label, err := strconv.Atoi(raw)
		if err != nil {
			if v, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
				label = int(v)
			} else {
				return nil, fmt.Errorf("bad cluster label %q for customer %s", raw, customerID)
			}
		}
		assignments[customerID] = label
	}

	return assignments, nil
}

// Apply returns a copy of the RFM table with cluster labels bound where the
// assignment artifact has one. Customers absent from the artifact keep the
// ClusterUnlabeled sentinel; a partial artifact never fails the view.
func Apply(records []model.RFMRecord, assignments Assignments) []model.RFMRecord {
	out := make([]model.RFMRecord, len(records))
	copy(out, records)

	for i := range out {
		if label, ok := assignments[out[i].CustomerID]; ok {
			out[i].Cluster = label
		} else {
			out[i].Cluster = model.ClusterUnlabeled
		}
	}
	return out
}
