package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/salesstack/sales-sentinel/internal/models"
)

// IncidentRepo appends incidents to the incidents table. The table is
// append-only from the engine's point of view; no update or delete path
// exists here.
type IncidentRepo struct {
	db      *sqlx.DB
	table   string
	timeout time.Duration
}

// NewIncidentRepo constructs the database-backed incident sink.
func NewIncidentRepo(db *sqlx.DB, table string, timeout time.Duration) *IncidentRepo {
	return &IncidentRepo{db: db, table: table, timeout: timeout}
}

// Name identifies this sink in write-outcome reports.
func (r *IncidentRepo) Name() string {
	return "postgres"
}

// StoreIncident inserts one incident. The context payload is stored as jsonb
// so dashboards can query the justification fields directly.
func (r *IncidentRepo) StoreIncident(ctx context.Context, incident models.Incident) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("incident repository not initialised")
	}

	payload, err := json.Marshal(incident.Context)
	if err != nil {
		return fmt.Errorf("marshal incident context: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, kind, severity, message, context, created_at)
		 VALUES ($1, $2, $3, $4, CAST($5 AS jsonb), $6)`,
		pq.QuoteIdentifier(r.table),
	)

	if _, err := r.db.ExecContext(ctx, query,
		incident.ID,
		string(incident.Kind),
		string(incident.Severity),
		incident.Message,
		string(payload),
		incident.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}
