package features

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

// WriteRFM writes the RFM table as a CSV artifact. The Cluster column is
// emitted only when at least one record carries a label, matching the shape
// the offline clustering job produces.
func WriteRFM(w io.Writer, records []model.RFMRecord) error {
	cw := csv.NewWriter(w)

	labeled := false
	for _, r := range records {
		if r.Labeled() {
			labeled = true
			break
		}
	}

	header := []string{"CustomerID", "Recency", "Frequency", "Monetary"}
	if labeled {
		header = append(header, "Cluster")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		rec := []string{
			r.CustomerID,
			strconv.Itoa(r.RecencyDays),
			strconv.Itoa(r.Frequency),
			strconv.FormatFloat(r.Monetary, 'f', -1, 64),
		}
		if labeled {
			rec = append(rec, strconv.Itoa(r.Cluster))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// LoadRFM reads an RFM artifact, with or without the optional Cluster
// column. Records without a label get the ClusterUnlabeled sentinel.
func LoadRFM(path string) ([]model.RFMRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.ArtifactError(common.ErrArtifactMissing, path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadRFM(f)
	if err != nil {
		return nil, common.ArtifactError(common.ErrShapeMismatch, path, err)
	}
	return records, nil
}

// ReadRFM parses an RFM artifact from CSV.
func ReadRFM(r io.Reader) ([]model.RFMRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"customerid", "recency", "frequency", "monetary"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %s column in %v", required, header)
		}
	}
	clusterCol, hasCluster := cols["cluster"]

	var records []model.RFMRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		recency, err := parseIntField(rec[cols["recency"]])
		if err != nil {
			return nil, fmt.Errorf("bad recency: %w", err)
		}
		frequency, err := parseIntField(rec[cols["frequency"]])
		if err != nil {
			return nil, fmt.Errorf("bad frequency: %w", err)
		}
		monetary, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["monetary"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad monetary value %q", rec[cols["monetary"]])
		}

		record := model.RFMRecord{
			CustomerID:  strings.TrimSpace(rec[cols["customerid"]]),
			RecencyDays: recency,
			Frequency:   frequency,
			Monetary:    monetary,
			Cluster:     model.ClusterUnlabeled,
		}
		if hasCluster && len(rec) > clusterCol && strings.TrimSpace(rec[clusterCol]) != "" {
			label, err := parseIntField(rec[clusterCol])
			if err != nil {
				return nil, fmt.Errorf("bad cluster label: %w", err)
			}
			record.Cluster = label
		}

		records = append(records, record)
	}

	return records, nil
}

// parseIntField parses an integer that may arrive float-formatted, the way
// pandas-produced artifacts encode integral columns ("12.0").
func parseIntField(value string) (int, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	return int(v), nil
}
