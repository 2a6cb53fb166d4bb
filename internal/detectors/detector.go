// Package detectors holds the four stateless anomaly rules. Each rule is a
// pure function of the normalized records or a filtered daily series plus its
// thresholds, and produces at most one incident per run.
package detectors

import "github.com/salesstack/sales-sentinel/internal/models"

// Default thresholds used when a detector is constructed with zero values.
const (
	DefaultDropRatio           = 0.30
	DefaultRevenueFloor        = 10.0
	DefaultSevereVolumeRatio   = 0.60
	DefaultRepetitionThreshold = 3
)

// DeclineReason explains why a detector produced no incident. Callers collapse
// every decline to "no incident"; tests assert on the reason.
type DeclineReason string

const (
	DeclineNone                DeclineReason = ""
	DeclineNoData              DeclineReason = "no_data"
	DeclineInsufficientHistory DeclineReason = "insufficient_history"
	DeclineZeroBaseline        DeclineReason = "zero_baseline"
	DeclineWithinThreshold     DeclineReason = "within_threshold"
)

// Result is one detector evaluation outcome: either a fired incident or a
// decline with its reason.
type Result struct {
	Kind     models.Kind
	Incident *models.Incident
	Declined DeclineReason
}

// Fired reports whether the evaluation produced an incident.
func (r Result) Fired() bool {
	return r.Incident != nil
}

func fired(incident models.Incident) Result {
	return Result{Kind: incident.Kind, Incident: &incident}
}

func declined(kind models.Kind, reason DeclineReason) Result {
	return Result{Kind: kind, Declined: reason}
}
