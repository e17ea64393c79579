package features

import (
	"strings"
	"testing"

	"github.com/shopspectrum/spectrum/internal/model"
)

func TestReadRFM_OptionalClusterColumn(t *testing.T) {
	withCluster := "CustomerID,Recency,Frequency,Monetary,Cluster\n" +
		"C1,28,2,15.0,2\n" +
		"C2,3,11,420.5,0\n"

	records, err := ReadRFM(strings.NewReader(withCluster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Cluster != 2 || records[1].Cluster != 0 {
		t.Errorf("clusters = %d, %d; want 2, 0", records[0].Cluster, records[1].Cluster)
	}

	withoutCluster := "CustomerID,Recency,Frequency,Monetary\n" +
		"C1,28,2,15.0\n"

	records, err = ReadRFM(strings.NewReader(withoutCluster))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Cluster != model.ClusterUnlabeled {
		t.Errorf("cluster = %d, want unlabeled sentinel", records[0].Cluster)
	}
}

func TestReadRFM_FloatFormattedIntegers(t *testing.T) {
	// pandas-produced artifacts encode integral columns as "12.0".
	input := "CustomerID,Recency,Frequency,Monetary,Cluster\n" +
		"C1,28.0,2.0,15.0,1.0\n"

	records, err := ReadRFM(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := records[0]
	if r.RecencyDays != 28 || r.Frequency != 2 || r.Cluster != 1 {
		t.Errorf("parsed %+v, want recency 28, frequency 2, cluster 1", r)
	}
}

func TestWriteRFM_ClusterColumnOnlyWhenLabeled(t *testing.T) {
	unlabeled := []model.RFMRecord{
		{CustomerID: "C1", RecencyDays: 28, Frequency: 2, Monetary: 15, Cluster: model.ClusterUnlabeled},
	}

	var b strings.Builder
	if err := WriteRFM(&b, unlabeled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(b.String(), "Cluster") {
		t.Errorf("unlabeled table should not carry a Cluster column:\n%s", b.String())
	}

	labeled := []model.RFMRecord{
		{CustomerID: "C1", RecencyDays: 28, Frequency: 2, Monetary: 15, Cluster: 3},
	}

	b.Reset()
	if err := WriteRFM(&b, labeled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(b.String(), "Cluster") {
		t.Errorf("labeled table should carry a Cluster column:\n%s", b.String())
	}
}
