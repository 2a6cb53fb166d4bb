package models

import "time"

// Kind enumerates the anomaly types the detector set can report.
type Kind string

const (
	KindRevenueDrop     Kind = "revenue_drop"
	KindLowRevenue      Kind = "low_revenue"
	KindVolumeDrop      Kind = "volume_drop"
	KindDuplicateCharge Kind = "duplicate_charge"
)

// Severity captures impact levels.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Context carries the numbers that justified an incident. Each Kind has
// exactly one flat, JSON-serializable implementation.
type Context interface {
	Kind() Kind
}

// Incident is one structured anomaly finding. ID and CreatedAt are stamped
// when the incident is handed to a sink; everything else is immutable after
// the detector constructs it.
type Incident struct {
	ID        string
	Kind      Kind
	Severity  Severity
	Message   string
	Context   Context
	CreatedAt time.Time
}

// RevenueDropContext records the two-point comparison behind a revenue drop.
type RevenueDropContext struct {
	PreviousDay     string  `json:"previous_day"`
	LatestDay       string  `json:"latest_day"`
	PreviousRevenue float64 `json:"previous_revenue"`
	LatestRevenue   float64 `json:"latest_revenue"`
	VariationPct    float64 `json:"variation_pct"`
	ThresholdPct    float64 `json:"configured_drop_pct"`
}

// Kind implements Context.
func (RevenueDropContext) Kind() Kind { return KindRevenueDrop }

// LowRevenueContext records an absolute floor breach.
type LowRevenueContext struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"daily_revenue"`
	Floor   float64 `json:"configured_floor"`
}

// Kind implements Context.
func (LowRevenueContext) Kind() Kind { return KindLowRevenue }

// VolumeDropContext records a transaction-count drop.
type VolumeDropContext struct {
	PreviousDay   string  `json:"previous_day"`
	LatestDay     string  `json:"latest_day"`
	PreviousCount int     `json:"previous_count"`
	LatestCount   int     `json:"latest_count"`
	VariationPct  float64 `json:"variation_pct"`
	ThresholdPct  float64 `json:"configured_drop_pct"`
}

// Kind implements Context.
func (VolumeDropContext) Kind() Kind { return KindVolumeDrop }

// DuplicateChargeContext records the strongest same-day repeated-charge group.
type DuplicateChargeContext struct {
	Day         string  `json:"sale_date"`
	Customer    string  `json:"customer"`
	Amount      float64 `json:"amount"`
	Repetitions int     `json:"repetitions"`
	Threshold   int     `json:"configured_threshold"`
}

// Kind implements Context.
func (DuplicateChargeContext) Kind() Kind { return KindDuplicateCharge }
