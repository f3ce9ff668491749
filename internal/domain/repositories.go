package domain

import (
	"context"
)

// AccountRepository provides access to connected mail accounts
type AccountRepository interface {
	// GetAccounts returns all accounts the user has connected
	GetAccounts(ctx context.Context) ([]Account, error)
}

// ExpenseRepository provides access to detected expenses
type ExpenseRepository interface {
	// GetExpenses returns all expenses for a month key ("2025-07")
	GetExpenses(ctx context.Context, month string) ([]Expense, error)

	// SetCategory assigns a category to one expense
	SetCategory(ctx context.Context, expenseID, category string) error

	// SetStatus confirms or discards one expense
	SetStatus(ctx context.Context, expenseID string, status ExpenseStatus) error
}

// SyncRepository controls server-side sync runs
type SyncRepository interface {
	// CurrentSession returns the session the server reports right now.
	// When no run was ever started it returns a zero session, not an error.
	CurrentSession(ctx context.Context) (SyncSession, error)

	// StartSession asks the server to begin a new sync run. If a run is
	// already active the server returns that one.
	StartSession(ctx context.Context) (SyncSession, error)
}

// RuleRepository manages categorization rules
type RuleRepository interface {
	GetRules(ctx context.Context) ([]Rule, error)
	CreateRule(ctx context.Context, rule Rule) (Rule, error)
	DeleteRule(ctx context.Context, ruleID string) error
}

// ConflictRepository manages suspected duplicate pairs
type ConflictRepository interface {
	GetConflicts(ctx context.Context) ([]Conflict, error)
	Resolve(ctx context.Context, conflictID string, resolution Resolution) error
}

// SummaryRepository provides aggregated spending data
type SummaryRepository interface {
	// GetMonthSummaries returns totals for the most recent n months,
	// oldest first
	GetMonthSummaries(ctx context.Context, months int) ([]MonthSummary, error)

	// GetDailyTotals returns per-day totals for the most recent n weeks
	GetDailyTotals(ctx context.Context, weeks int) ([]DayTotal, error)
}
