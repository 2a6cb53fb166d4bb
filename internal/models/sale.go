package models

import "time"

// SaleRecord is one normalized transaction. SaleDate is truncated to a UTC
// calendar day; records with an unparsable date never reach this type.
type SaleRecord struct {
	ID          string
	SaleDate    time.Time
	Customer    string
	TotalAmount float64
}

// DailyAmount is one populated day's summed revenue.
type DailyAmount struct {
	Day    time.Time
	Amount float64
}

// DailyCount is one populated day's transaction count.
type DailyCount struct {
	Day   time.Time
	Count int
}
