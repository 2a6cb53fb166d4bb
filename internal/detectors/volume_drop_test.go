package detectors

import (
	"testing"

	"github.com/salesstack/sales-sentinel/internal/models"
)

func countSeries(values ...int) []models.DailyCount {
	series := make([]models.DailyCount, 0, len(values))
	for i, v := range values {
		series = append(series, models.DailyCount{Day: day(i + 1), Count: v})
	}
	return series
}

func TestVolumeDropSevereIsHigh(t *testing.T) {
	detector := NewVolumeDropDetector(0.30, 0.60)

	result := detector.Evaluate(countSeries(10, 10, 4))
	if !result.Fired() {
		t.Fatalf("expected incident, got decline %q", result.Declined)
	}
	if result.Incident.Severity != models.SeverityHigh {
		t.Fatalf("expected high severity for a 60%% drop, got %s", result.Incident.Severity)
	}

	ctx, ok := result.Incident.Context.(models.VolumeDropContext)
	if !ok {
		t.Fatalf("unexpected context type %T", result.Incident.Context)
	}
	if ctx.VariationPct != -60.0 {
		t.Fatalf("expected variation -60.0, got %v", ctx.VariationPct)
	}
	if ctx.PreviousCount != 10 || ctx.LatestCount != 4 {
		t.Fatalf("unexpected counts: %+v", ctx)
	}
}

func TestVolumeDropModerateIsMedium(t *testing.T) {
	detector := NewVolumeDropDetector(0.30, 0.60)

	result := detector.Evaluate(countSeries(10, 10, 6))
	if !result.Fired() {
		t.Fatalf("expected incident, got decline %q", result.Declined)
	}
	if result.Incident.Severity != models.SeverityMedium {
		t.Fatalf("expected medium severity for a 40%% drop, got %s", result.Incident.Severity)
	}
}

func TestVolumeDropDeclinesWithinThreshold(t *testing.T) {
	detector := NewVolumeDropDetector(0.30, 0.60)

	result := detector.Evaluate(countSeries(10, 8))
	if result.Fired() {
		t.Fatalf("expected no incident for a 20%% drop")
	}
	if result.Declined != DeclineWithinThreshold {
		t.Fatalf("expected within_threshold, got %q", result.Declined)
	}
}

func TestVolumeDropNeedsHistory(t *testing.T) {
	detector := NewVolumeDropDetector(0.30, 0.60)

	if result := detector.Evaluate(countSeries(4)); result.Declined != DeclineInsufficientHistory {
		t.Fatalf("expected insufficient_history, got %q", result.Declined)
	}
	if result := detector.Evaluate(nil); result.Declined != DeclineNoData {
		t.Fatalf("expected no_data, got %q", result.Declined)
	}
	if result := detector.Evaluate(countSeries(0, 4)); result.Declined != DeclineZeroBaseline {
		t.Fatalf("expected zero_baseline, got %q", result.Declined)
	}
}
