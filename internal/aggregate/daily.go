// Package aggregate builds per-day series over populated days and applies the
// completeness filter that shields comparisons from a still-accumulating day.
package aggregate

import (
	"sort"
	"time"

	"github.com/salesstack/sales-sentinel/internal/models"
)

// AmountByDay returns the summed revenue per populated day, ascending by day.
// Days without records are absent, not zero-valued.
func AmountByDay(records []models.SaleRecord) []models.DailyAmount {
	if len(records) == 0 {
		return nil
	}

	totals := make(map[time.Time]float64, len(records))
	for _, record := range records {
		totals[record.SaleDate] += record.TotalAmount
	}

	series := make([]models.DailyAmount, 0, len(totals))
	for day, amount := range totals {
		series = append(series, models.DailyAmount{Day: day, Amount: amount})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series
}

// CountByDay returns the transaction count per populated day, ascending by day.
func CountByDay(records []models.SaleRecord) []models.DailyCount {
	if len(records) == 0 {
		return nil
	}

	counts := make(map[time.Time]int, len(records))
	for _, record := range records {
		counts[record.SaleDate]++
	}

	series := make([]models.DailyCount, 0, len(counts))
	for day, count := range counts {
		series = append(series, models.DailyCount{Day: day, Count: count})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Day.Before(series[j].Day) })
	return series
}

// CompleteAmounts drops the last entry when it falls on today, since the
// current day is presumed to still be accumulating sales. Once the last entry
// no longer matches today the filter is a no-op.
func CompleteAmounts(series []models.DailyAmount, today time.Time) []models.DailyAmount {
	if len(series) == 0 {
		return series
	}
	if series[len(series)-1].Day.Equal(today) {
		return series[:len(series)-1]
	}
	return series
}

// CompleteCounts is the completeness filter over the count series.
func CompleteCounts(series []models.DailyCount, today time.Time) []models.DailyCount {
	if len(series) == 0 {
		return series
	}
	if series[len(series)-1].Day.Equal(today) {
		return series[:len(series)-1]
	}
	return series
}
