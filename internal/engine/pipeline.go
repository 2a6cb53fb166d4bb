// Package engine wires the detection pipeline: source read, normalization,
// daily aggregation, completeness filtering and the detector pass. Data flows
// strictly forward; nothing here feeds back into an earlier stage.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesstack/sales-sentinel/internal/aggregate"
	"github.com/salesstack/sales-sentinel/internal/detectors"
	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/normalize"
	"github.com/salesstack/sales-sentinel/internal/repo"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// debugTail bounds how many trailing series entries the pipeline logs.
const debugTail = 5

// SalesSource defines the raw-data read the pipeline depends on.
type SalesSource interface {
	FetchSaleRows(ctx context.Context) ([]repo.SaleRow, error)
}

// Pipeline runs one detection pass over the current state of the sales table.
type Pipeline struct {
	logger    *slog.Logger
	source    SalesSource
	revenue   *detectors.RevenueDropDetector
	floor     *detectors.LowRevenueDetector
	volume    *detectors.VolumeDropDetector
	duplicate *detectors.DuplicateChargeDetector
	clock     func() time.Time
}

// NewPipeline constructs the detection pipeline. The clock supplies the run's
// "today" for the completeness filter; nil means time.Now.
func NewPipeline(
	logger *slog.Logger,
	source SalesSource,
	revenue *detectors.RevenueDropDetector,
	floor *detectors.LowRevenueDetector,
	volume *detectors.VolumeDropDetector,
	duplicate *detectors.DuplicateChargeDetector,
	clock func() time.Time,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if revenue == nil {
		revenue = detectors.NewRevenueDropDetector(0)
	}
	if floor == nil {
		floor = detectors.NewLowRevenueDetector(-1)
	}
	if volume == nil {
		volume = detectors.NewVolumeDropDetector(0, 0)
	}
	if duplicate == nil {
		duplicate = detectors.NewDuplicateChargeDetector(0, logger)
	}
	if clock == nil {
		clock = time.Now
	}

	return &Pipeline{
		logger:    logger,
		source:    source,
		revenue:   revenue,
		floor:     floor,
		volume:    volume,
		duplicate: duplicate,
		clock:     clock,
	}
}

// Scan reads the sales table once and evaluates every detector in fixed order
// (revenue drop, low revenue, volume drop, duplicate heuristic) so output
// ordering is deterministic for the same input. A source read failure aborts
// the run; detector declines do not.
func (p *Pipeline) Scan(ctx context.Context) (models.ScanReport, error) {
	if p.source == nil {
		return models.ScanReport{}, fmt.Errorf("sales source not configured")
	}

	rows, err := p.source.FetchSaleRows(ctx)
	if err != nil {
		return models.ScanReport{}, utils.NewAppError("pipeline.scan", "read sales rows", err)
	}

	records := normalize.Records(rows)
	if dropped := len(rows) - len(records); dropped > 0 {
		p.logger.Debug("rows dropped at normalization", slog.Int("dropped", dropped))
	}

	report := models.ScanReport{RecordCount: len(records)}
	for _, record := range records {
		report.GrandTotal += record.TotalAmount
	}

	today := utils.DayOf(p.clock())
	amounts := aggregate.CompleteAmounts(aggregate.AmountByDay(records), today)
	counts := aggregate.CompleteCounts(aggregate.CountByDay(records), today)
	p.logSeriesTails(amounts, counts)

	results := []detectors.Result{
		p.revenue.Evaluate(amounts),
		p.floor.Evaluate(amounts),
		p.volume.Evaluate(counts),
		p.duplicate.Evaluate(records),
	}

	for _, result := range results {
		if result.Fired() {
			report.Incidents = append(report.Incidents, *result.Incident)
			continue
		}
		p.logger.Debug("detector declined",
			slog.String("kind", string(result.Kind)),
			slog.String("reason", string(result.Declined)),
		)
	}

	return report, nil
}

func (p *Pipeline) logSeriesTails(amounts []models.DailyAmount, counts []models.DailyCount) {
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, entry := range amounts[max(0, len(amounts)-debugTail):] {
		p.logger.Debug("daily revenue",
			slog.String("day", utils.FormatDay(entry.Day)),
			slog.Float64("amount", entry.Amount),
		)
	}
	for _, entry := range counts[max(0, len(counts)-debugTail):] {
		p.logger.Debug("daily volume",
			slog.String("day", utils.FormatDay(entry.Day)),
			slog.Int("count", entry.Count),
		)
	}
}
