package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus tracks where an expense sits in the review flow
type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "pending"
	ExpenseConfirmed ExpenseStatus = "confirmed"
	ExpenseDiscarded ExpenseStatus = "discarded"
)

// Expense is a single charge the server detected in a receipt email
type Expense struct {
	ID           string          // Server-assigned unique identifier
	AccountID    int64           // Mail account the receipt arrived on
	Date         time.Time       // Charge date, day resolution
	Merchant     string          // Normalized merchant name
	Description  string          // Free-form detail extracted from the email
	Amount       decimal.Decimal // Charge amount, always positive
	Currency     string          // ISO 4217 code, e.g. "EUR"
	Category     string          // Empty until categorized
	Status       ExpenseStatus   // Review state
	EmailSubject string          // Subject line of the source email
	ReceiptURL   string          // Link to the original receipt, may be empty
}

// Month returns the month bucket this expense belongs to
func (e Expense) Month() string {
	return MonthKey(e.Date)
}

// Account is a connected mail account receipts are pulled from
type Account struct {
	ID    int64
	Name  string // Display label, e.g. "Personal"
	Email string
}

// MonthKey returns the cache/query key for a date's month, e.g. "2025-07"
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
