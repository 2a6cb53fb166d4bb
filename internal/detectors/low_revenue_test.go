package detectors

import (
	"testing"

	"github.com/salesstack/sales-sentinel/internal/models"
)

func TestLowRevenueFiresWithoutHistory(t *testing.T) {
	detector := NewLowRevenueDetector(10.0)

	result := detector.Evaluate(amountSeries(5.0))
	if !result.Fired() {
		t.Fatalf("expected incident on single low day, got %q", result.Declined)
	}
	if result.Incident.Severity != models.SeverityHigh {
		t.Fatalf("expected high severity, got %s", result.Incident.Severity)
	}

	ctx, ok := result.Incident.Context.(models.LowRevenueContext)
	if !ok {
		t.Fatalf("unexpected context type %T", result.Incident.Context)
	}
	if ctx.Revenue != 5.0 || ctx.Floor != 10.0 {
		t.Fatalf("unexpected context: %+v", ctx)
	}
}

func TestLowRevenueFiresOnExactFloor(t *testing.T) {
	detector := NewLowRevenueDetector(10.0)

	result := detector.Evaluate(amountSeries(10.0))
	if !result.Fired() {
		t.Fatalf("expected incident at the floor boundary, got %q", result.Declined)
	}
}

func TestLowRevenueDeclinesAboveFloor(t *testing.T) {
	detector := NewLowRevenueDetector(10.0)

	result := detector.Evaluate(amountSeries(100, 50))
	if result.Fired() {
		t.Fatalf("expected no incident above floor")
	}
	if result.Declined != DeclineWithinThreshold {
		t.Fatalf("expected within_threshold, got %q", result.Declined)
	}
}

func TestLowRevenueDeclinesOnEmptySeries(t *testing.T) {
	detector := NewLowRevenueDetector(10.0)

	result := detector.Evaluate(nil)
	if result.Declined != DeclineNoData {
		t.Fatalf("expected no_data, got %q", result.Declined)
	}
}
