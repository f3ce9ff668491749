package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthSummary aggregates spending for one calendar month
type MonthSummary struct {
	Month string // Month key, e.g. "2025-07"
	Total decimal.Decimal
	Count int // Number of confirmed expenses
}

// DayTotal is one cell of the spending heatmap
type DayTotal struct {
	Date  time.Time
	Total decimal.Decimal
}
