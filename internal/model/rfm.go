package model

// ClusterUnlabeled marks a customer absent from the external cluster
// assignment artifact.
const ClusterUnlabeled = -1

// RFMRecord holds the per-customer behavioral feature triple.
type RFMRecord struct {
	CustomerID string
	// RecencyDays is the number of whole days between the customer's most
	// recent purchase and the observation instant. Smaller is more recent.
	RecencyDays int
	// Frequency is the count of distinct invoices for the customer.
	Frequency int
	// Monetary is the sum of TotalPrice across the customer's transactions.
	Monetary float64
	// Cluster is an externally assigned segment label, or ClusterUnlabeled.
	Cluster int
}

// Labeled reports whether the record carries an external cluster label.
func (r RFMRecord) Labeled() bool {
	return r.Cluster != ClusterUnlabeled
}
