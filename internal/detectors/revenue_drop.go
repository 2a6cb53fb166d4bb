package detectors

import (
	"fmt"
	"math"

	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// RevenueDropDetector compares the two most recent entries of the filtered
// revenue series. "Previous" is the preceding populated day, which may be
// several calendar days back when the series has gaps.
type RevenueDropDetector struct {
	dropRatio float64
}

// NewRevenueDropDetector creates the rule with the given drop ratio, falling
// back to the default when the ratio is not positive.
func NewRevenueDropDetector(dropRatio float64) *RevenueDropDetector {
	if dropRatio <= 0 {
		dropRatio = DefaultDropRatio
	}
	return &RevenueDropDetector{dropRatio: dropRatio}
}

// Evaluate fires when revenue fell by at least the configured ratio between
// the previous and latest complete days. A zero previous day declines: a
// transition from zero is not expressible as a percentage.
func (d *RevenueDropDetector) Evaluate(series []models.DailyAmount) Result {
	if len(series) == 0 {
		return declined(models.KindRevenueDrop, DeclineNoData)
	}
	if len(series) < 2 {
		return declined(models.KindRevenueDrop, DeclineInsufficientHistory)
	}

	latest := series[len(series)-1]
	previous := series[len(series)-2]

	if previous.Amount == 0 {
		return declined(models.KindRevenueDrop, DeclineZeroBaseline)
	}

	variation := (latest.Amount - previous.Amount) / previous.Amount
	if variation > -d.dropRatio {
		return declined(models.KindRevenueDrop, DeclineWithinThreshold)
	}

	return fired(models.Incident{
		Kind:     models.KindRevenueDrop,
		Severity: models.SeverityHigh,
		Message: fmt.Sprintf("Revenue dropped %.2f%% on %s",
			math.Abs(variation)*100, utils.FormatDay(latest.Day)),
		Context: models.RevenueDropContext{
			PreviousDay:     utils.FormatDay(previous.Day),
			LatestDay:       utils.FormatDay(latest.Day),
			PreviousRevenue: previous.Amount,
			LatestRevenue:   latest.Amount,
			VariationPct:    variation * 100,
			ThresholdPct:    d.dropRatio * 100,
		},
	})
}
