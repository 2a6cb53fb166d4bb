package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// SaleRow is one raw row from the sales table. Date and amount keep their
// driver-native types (text, timestamp, numeric); normalization decides what
// survives.
type SaleRow struct {
	ID          any    `db:"id"`
	SaleDate    any    `db:"sale_date"`
	Customer    string `db:"customer"`
	TotalAmount any    `db:"total_amount"`
}

// SalesRepo reads the raw sales table.
type SalesRepo struct {
	db      *sqlx.DB
	table   string
	timeout time.Duration
}

// NewSalesRepo constructs a reader over the configured sales table.
func NewSalesRepo(db *sqlx.DB, table string, timeout time.Duration) *SalesRepo {
	return &SalesRepo{db: db, table: table, timeout: timeout}
}

// FetchSaleRows returns every row the detector set needs: id, sale_date,
// customer and total_amount.
func (r *SalesRepo) FetchSaleRows(ctx context.Context) ([]SaleRow, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("sales repository not initialised")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	query := fmt.Sprintf(
		`SELECT id, sale_date, customer, total_amount FROM %s`,
		pq.QuoteIdentifier(r.table),
	)

	var rows []SaleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("fetch sale rows: %w", err)
	}
	return rows, nil
}
