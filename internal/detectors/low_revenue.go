package detectors

import (
	"fmt"

	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// LowRevenueDetector checks the latest complete day against an absolute
// revenue floor. It needs no history and fires independently of the relative
// drop rule, so the same day can raise both incidents.
type LowRevenueDetector struct {
	floor float64
}

// NewLowRevenueDetector creates the rule with the given floor, falling back
// to the default when the floor is negative.
func NewLowRevenueDetector(floor float64) *LowRevenueDetector {
	if floor < 0 {
		floor = DefaultRevenueFloor
	}
	return &LowRevenueDetector{floor: floor}
}

// Evaluate fires when the latest complete day's revenue is at or below the floor.
func (d *LowRevenueDetector) Evaluate(series []models.DailyAmount) Result {
	if len(series) == 0 {
		return declined(models.KindLowRevenue, DeclineNoData)
	}

	latest := series[len(series)-1]
	if latest.Amount > d.floor {
		return declined(models.KindLowRevenue, DeclineWithinThreshold)
	}

	return fired(models.Incident{
		Kind:     models.KindLowRevenue,
		Severity: models.SeverityHigh,
		Message: fmt.Sprintf("Revenue abnormally low (<= %.2f) on %s: %.2f",
			d.floor, utils.FormatDay(latest.Day), latest.Amount),
		Context: models.LowRevenueContext{
			Day:     utils.FormatDay(latest.Day),
			Revenue: latest.Amount,
			Floor:   d.floor,
		},
	})
}
