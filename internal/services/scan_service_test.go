package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/salesstack/sales-sentinel/internal/detectors"
	"github.com/salesstack/sales-sentinel/internal/engine"
	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/repo"
)

type stubSource struct {
	rows []repo.SaleRow
	err  error
}

func (s *stubSource) FetchSaleRows(ctx context.Context) ([]repo.SaleRow, error) {
	return s.rows, s.err
}

type recordingSink struct {
	name   string
	stored []models.Incident
	err    error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) StoreIncident(ctx context.Context, incident models.Incident) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, incident)
	return nil
}

// Two complete days with a 95% revenue collapse onto a floor breach: both the
// revenue-drop and low-revenue rules fire in the same run.
func collapseRows() []repo.SaleRow {
	return []repo.SaleRow{
		{ID: "1", SaleDate: "2024-03-10", Customer: "Alice", TotalAmount: "60.00"},
		{ID: "2", SaleDate: "2024-03-10", Customer: "Bob", TotalAmount: "40.00"},
		{ID: "3", SaleDate: "2024-03-11", Customer: "Alice", TotalAmount: "2.50"},
		{ID: "4", SaleDate: "2024-03-11", Customer: "Bob", TotalAmount: "2.50"},
	}
}

func newTestService(source engine.SalesSource, sinks ...IncidentSink) *ScanService {
	pipeline := engine.NewPipeline(
		nil,
		source,
		detectors.NewRevenueDropDetector(0.30),
		detectors.NewLowRevenueDetector(10.0),
		detectors.NewVolumeDropDetector(0.30, 0.60),
		detectors.NewDuplicateChargeDetector(3, nil),
		func() time.Time { return time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC) },
	)
	service := NewScanService(nil, pipeline, sinks...)
	id := 0
	service.newID = func() string {
		id++
		return fmt.Sprintf("incident-%d", id)
	}
	return service
}

func TestRunPersistsEveryIncidentToEverySink(t *testing.T) {
	primary := &recordingSink{name: "postgres"}
	secondary := &recordingSink{name: "webhook"}
	service := newTestService(&stubSource{rows: collapseRows()}, primary, secondary)

	report, writes, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Incidents) != 2 {
		t.Fatalf("expected revenue drop + low revenue, got %d incidents", len(report.Incidents))
	}
	if len(primary.stored) != 2 || len(secondary.stored) != 2 {
		t.Fatalf("expected both sinks to receive both incidents, got %d/%d",
			len(primary.stored), len(secondary.stored))
	}
	if len(writes) != 4 {
		t.Fatalf("expected 4 write outcomes, got %d", len(writes))
	}
	for _, write := range writes {
		if write.Err != nil {
			t.Fatalf("unexpected write failure: %+v", write)
		}
		if write.IncidentID == "" {
			t.Fatalf("expected incident id stamped before write: %+v", write)
		}
	}
	for _, incident := range primary.stored {
		if incident.ID == "" || incident.CreatedAt.IsZero() {
			t.Fatalf("expected id and created_at stamped, got %+v", incident)
		}
	}
}

func TestRunWriteFailureDoesNotSuppressOtherWrites(t *testing.T) {
	failing := &recordingSink{name: "postgres", err: errors.New("insert failed")}
	healthy := &recordingSink{name: "webhook"}
	service := newTestService(&stubSource{rows: collapseRows()}, failing, healthy)

	report, writes, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("write failures must not abort the run: %v", err)
	}
	if len(report.Incidents) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(report.Incidents))
	}
	if len(healthy.stored) != 2 {
		t.Fatalf("expected healthy sink to receive both incidents, got %d", len(healthy.stored))
	}

	failed := 0
	for _, write := range writes {
		if write.Err != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Fatalf("expected 2 failed writes surfaced, got %d", failed)
	}
}

func TestRunNeutralOutcomeOnCleanData(t *testing.T) {
	sink := &recordingSink{name: "postgres"}
	rows := []repo.SaleRow{
		{ID: "1", SaleDate: "2024-03-10", Customer: "Alice", TotalAmount: "100.00"},
		{ID: "2", SaleDate: "2024-03-11", Customer: "Bob", TotalAmount: "110.00"},
	}
	service := newTestService(&stubSource{rows: rows}, sink)

	report, writes, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Incidents) != 0 || len(writes) != 0 {
		t.Fatalf("expected clean run, got %+v", report.Incidents)
	}
	if report.GrandTotal != 210 {
		t.Fatalf("expected grand total 210, got %v", report.GrandTotal)
	}
}

func TestRunSourceFailureIsFatal(t *testing.T) {
	sink := &recordingSink{name: "postgres"}
	service := newTestService(&stubSource{err: errors.New("timeout")}, sink)

	if _, _, err := service.Run(context.Background()); err == nil {
		t.Fatalf("expected source failure to surface")
	}
	if len(sink.stored) != 0 {
		t.Fatalf("no writes expected after a failed read")
	}
}
