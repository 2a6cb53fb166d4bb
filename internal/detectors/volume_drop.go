package detectors

import (
	"fmt"
	"math"

	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// VolumeDropDetector runs the two-point comparison over transaction counts.
// Volume swings are noisier than revenue, so severity is two-tier: only drops
// at or beyond the severe ratio are high, the rest are medium.
type VolumeDropDetector struct {
	dropRatio   float64
	severeRatio float64
}

// NewVolumeDropDetector creates the rule with the given ratios, falling back
// to defaults for non-positive values.
func NewVolumeDropDetector(dropRatio, severeRatio float64) *VolumeDropDetector {
	if dropRatio <= 0 {
		dropRatio = DefaultDropRatio
	}
	if severeRatio <= 0 {
		severeRatio = DefaultSevereVolumeRatio
	}
	return &VolumeDropDetector{dropRatio: dropRatio, severeRatio: severeRatio}
}

// Evaluate fires when the transaction count fell by at least the configured
// ratio between the previous and latest complete days.
func (d *VolumeDropDetector) Evaluate(series []models.DailyCount) Result {
	if len(series) == 0 {
		return declined(models.KindVolumeDrop, DeclineNoData)
	}
	if len(series) < 2 {
		return declined(models.KindVolumeDrop, DeclineInsufficientHistory)
	}

	latest := series[len(series)-1]
	previous := series[len(series)-2]

	if previous.Count == 0 {
		return declined(models.KindVolumeDrop, DeclineZeroBaseline)
	}

	variation := (float64(latest.Count) - float64(previous.Count)) / float64(previous.Count)
	if variation > -d.dropRatio {
		return declined(models.KindVolumeDrop, DeclineWithinThreshold)
	}

	severity := models.SeverityMedium
	if math.Abs(variation) >= d.severeRatio {
		severity = models.SeverityHigh
	}

	return fired(models.Incident{
		Kind:     models.KindVolumeDrop,
		Severity: severity,
		Message: fmt.Sprintf("Sales volume dropped %.2f%% on %s",
			math.Abs(variation)*100, utils.FormatDay(latest.Day)),
		Context: models.VolumeDropContext{
			PreviousDay:   utils.FormatDay(previous.Day),
			LatestDay:     utils.FormatDay(latest.Day),
			PreviousCount: previous.Count,
			LatestCount:   latest.Count,
			VariationPct:  variation * 100,
			ThresholdPct:  d.dropRatio * 100,
		},
	})
}
