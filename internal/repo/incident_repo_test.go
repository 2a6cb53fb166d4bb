package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/salesstack/sales-sentinel/internal/models"
)

func sampleIncident() models.Incident {
	return models.Incident{
		ID:       "11111111-1111-1111-1111-111111111111",
		Kind:     models.KindRevenueDrop,
		Severity: models.SeverityHigh,
		Message:  "Revenue dropped 60.00% on 2024-03-12",
		Context: models.RevenueDropContext{
			PreviousDay:     "2024-03-11",
			LatestDay:       "2024-03-12",
			PreviousRevenue: 100,
			LatestRevenue:   40,
			VariationPct:    -60,
			ThresholdPct:    30,
		},
		CreatedAt: time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC),
	}
}

func TestStoreIncident(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIncidentRepo(db, "incidents", time.Second)
	incident := sampleIncident()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "incidents"`)).
		WithArgs(
			incident.ID,
			"revenue_drop",
			"high",
			incident.Message,
			`{"previous_day":"2024-03-11","latest_day":"2024-03-12","previous_revenue":100,"latest_revenue":40,"variation_pct":-60,"configured_drop_pct":30}`,
			incident.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.StoreIncident(context.Background(), incident); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreIncidentInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewIncidentRepo(db, "incidents", time.Second)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "incidents"`)).
		WillReturnError(errors.New("permission denied"))

	if err := repo.StoreIncident(context.Background(), sampleIncident()); err == nil {
		t.Fatalf("expected insert failure to surface")
	}
}
