package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesstack/sales-sentinel/internal/engine"
	"github.com/salesstack/sales-sentinel/internal/metrics"
	"github.com/salesstack/sales-sentinel/internal/models"
)

// IncidentSink is one append-only destination for incidents.
type IncidentSink interface {
	Name() string
	StoreIncident(ctx context.Context, incident models.Incident) error
}

// IncidentWrite records the outcome of persisting one incident to one sink.
type IncidentWrite struct {
	IncidentID string
	Kind       models.Kind
	Sink       string
	Err        error
}

// ScanService drives one detection run end to end: pipeline scan, incident
// persistence and the run summary.
type ScanService struct {
	logger   *slog.Logger
	pipeline *engine.Pipeline
	sinks    []IncidentSink
	clock    func() time.Time
	newID    func() string
}

// NewScanService constructs the service facade over the pipeline and sinks.
func NewScanService(logger *slog.Logger, pipeline *engine.Pipeline, sinks ...IncidentSink) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{
		logger:   logger,
		pipeline: pipeline,
		sinks:    sinks,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// Run executes the pipeline, persists every fired incident to every sink and
// returns the report plus per-write outcomes. Writes are independent: one
// failure never suppresses the remaining attempts.
func (s *ScanService) Run(ctx context.Context) (models.ScanReport, []IncidentWrite, error) {
	start := s.clock()

	report, err := s.pipeline.Scan(ctx)
	if err != nil {
		metrics.ObserveScan(s.clock().Sub(start), metrics.OutcomeError)
		return models.ScanReport{}, nil, err
	}

	writes := make([]IncidentWrite, 0, len(report.Incidents)*len(s.sinks))
	for i := range report.Incidents {
		incident := &report.Incidents[i]
		incident.ID = s.newID()
		incident.CreatedAt = s.clock()
		metrics.CountIncident(incident.Kind, incident.Severity)

		for _, sink := range s.sinks {
			writeErr := sink.StoreIncident(ctx, *incident)
			metrics.CountSinkWrite(sink.Name(), writeErr)
			writes = append(writes, IncidentWrite{
				IncidentID: incident.ID,
				Kind:       incident.Kind,
				Sink:       sink.Name(),
				Err:        writeErr,
			})
			if writeErr != nil {
				s.logger.Error("incident write failed",
					slog.String("incident_id", incident.ID),
					slog.String("kind", string(incident.Kind)),
					slog.String("sink", sink.Name()),
					slog.Any("error", writeErr),
				)
			} else {
				s.logger.Info("incident recorded",
					slog.String("incident_id", incident.ID),
					slog.String("kind", string(incident.Kind)),
					slog.String("sink", sink.Name()),
				)
			}
		}
	}

	s.summarize(report)
	metrics.ObserveScan(s.clock().Sub(start), metrics.OutcomeSuccess)
	return report, writes, nil
}

// summarize prints the run-level outcome: either each incident's kind and
// message, or a neutral confirmation with the unfiltered grand total.
func (s *ScanService) summarize(report models.ScanReport) {
	if len(report.Incidents) == 0 {
		s.logger.Info("no incidents detected",
			slog.Int("records", report.RecordCount),
			slog.Float64("grand_total", report.GrandTotal),
		)
		return
	}

	s.logger.Warn("incidents detected", slog.Int("count", len(report.Incidents)))
	for _, incident := range report.Incidents {
		s.logger.Warn("incident",
			slog.String("kind", string(incident.Kind)),
			slog.String("severity", string(incident.Severity)),
			slog.String("message", incident.Message),
		)
	}
}
