// Package normalize coerces raw sales rows into the well-typed record set the
// detectors operate on.
package normalize

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesstack/sales-sentinel/internal/models"
	"github.com/salesstack/sales-sentinel/internal/repo"
	"github.com/salesstack/sales-sentinel/internal/utils"
)

// Records returns the subset of rows that normalize successfully. A row whose
// date cannot be parsed is dropped; this is filtering, not failure. A row
// whose amount cannot be parsed keeps a zero amount so it still counts toward
// volume-based rules.
func Records(rows []repo.SaleRow) []models.SaleRecord {
	records := make([]models.SaleRecord, 0, len(rows))
	for _, row := range rows {
		day, ok := coerceDay(row.SaleDate)
		if !ok {
			continue
		}
		records = append(records, models.SaleRecord{
			ID:          coerceID(row.ID),
			SaleDate:    day,
			Customer:    row.Customer,
			TotalAmount: coerceAmount(row.TotalAmount),
		})
	}
	return records
}

// coerceDay reduces a timestamp-like value to a pure calendar day.
func coerceDay(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return utils.DayOf(v), true
	case string:
		day, err := utils.ParseDay(v)
		return day, err == nil
	case []byte:
		day, err := utils.ParseDay(string(v))
		return day, err == nil
	default:
		return time.Time{}, false
	}
}

// coerceAmount converts text or driver-native numerics to float64. Postgres
// numeric columns arrive as text, so parsing goes through decimal to keep the
// boundary exact before the float conversion.
func coerceAmount(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseDecimal(v)
	case []byte:
		return parseDecimal(string(v))
	default:
		return 0
	}
}

func parseDecimal(value string) float64 {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// coerceID renders whatever identifier type the source uses as an opaque string.
func coerceID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
