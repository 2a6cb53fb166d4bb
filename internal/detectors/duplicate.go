package detectors

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// DuplicateChargeDetector flags a customer repeating the same amount on the
// same day at least the threshold number of times. Without order timestamps
// this stays a same-day heuristic, and only the strongest suspect group is
// reported per run.
type DuplicateChargeDetector struct {
	threshold int
	logger    *slog.Logger
}

type chargeGroup struct {
	day      time.Time
	customer string
	amount   float64
}

// NewDuplicateChargeDetector creates the rule with the given repetition
// threshold, falling back to the default when the threshold is below 2.
func NewDuplicateChargeDetector(threshold int, logger *slog.Logger) *DuplicateChargeDetector {
	if threshold < 2 {
		threshold = DefaultRepetitionThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateChargeDetector{threshold: threshold, logger: logger}
}

// Evaluate groups records by (day, customer, amount) and fires on the group
// with the highest repetition count at or above the threshold. Ties go to the
// group seen first in the input.
func (d *DuplicateChargeDetector) Evaluate(records []models.SaleRecord) Result {
	if len(records) == 0 {
		return declined(models.KindDuplicateCharge, DeclineNoData)
	}

	counts := make(map[chargeGroup]int, len(records))
	firstSeen := make(map[chargeGroup]int, len(records))
	for i, record := range records {
		key := chargeGroup{day: record.SaleDate, customer: record.Customer, amount: record.TotalAmount}
		if _, ok := counts[key]; !ok {
			firstSeen[key] = i
		}
		counts[key]++
	}

	var best chargeGroup
	bestCount := 0
	for key, count := range counts {
		if count < d.threshold {
			continue
		}
		d.logger.Debug("duplicate charge suspect",
			slog.String("day", utils.FormatDay(key.day)),
			slog.String("customer", key.customer),
			slog.Float64("amount", key.amount),
			slog.Int("repetitions", count),
		)
		if count > bestCount || (count == bestCount && firstSeen[key] < firstSeen[best]) {
			best = key
			bestCount = count
		}
	}

	if bestCount == 0 {
		return declined(models.KindDuplicateCharge, DeclineWithinThreshold)
	}

	return fired(models.Incident{
		Kind:     models.KindDuplicateCharge,
		Severity: models.SeverityHigh,
		Message: fmt.Sprintf("Possible duplicate/fraudulent charges: customer %q repeated a %.2f charge %dx on %s; flag for anti-fraud review",
			best.customer, best.amount, bestCount, utils.FormatDay(best.day)),
		Context: models.DuplicateChargeContext{
			Day:         utils.FormatDay(best.day),
			Customer:    best.customer,
			Amount:      best.amount,
			Repetitions: bestCount,
			Threshold:   d.threshold,
		},
	})
}
