package models

// ScanReport summarises one detection run.
type ScanReport struct {
	// RecordCount is the number of records that survived normalization.
	RecordCount int
	// GrandTotal is the summed amount over the full, unfiltered record set.
	// It is the sanity figure reported when no detector fires.
	GrandTotal float64
	// Incidents holds the fired detector results in detector order.
	Incidents []Incident
}
