package tui

import (
	"github.com/hvillar/gastos/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// AccountsLoadedMsg signals that the account directory has been loaded
type AccountsLoadedMsg struct {
	Accounts []domain.Account
}

// ExpensesLoadedMsg signals that a month of expenses has been loaded
type ExpensesLoadedMsg struct {
	Month    string
	Expenses []domain.Expense
}

// MonthSummariesLoadedMsg signals that month summaries are ready
type MonthSummariesLoadedMsg struct {
	Summaries []domain.MonthSummary
}

// DailyTotalsLoadedMsg signals that heatmap day totals are ready
type DailyTotalsLoadedMsg struct {
	Days []domain.DayTotal
}

// RulesLoadedMsg signals that pattern rules have been loaded
type RulesLoadedMsg struct {
	Rules []domain.Rule
}

// RuleSavedMsg signals that a rule was created on the server
type RuleSavedMsg struct {
	Rule domain.Rule
}

// RuleDeletedMsg signals that a rule was removed
type RuleDeletedMsg struct {
	RuleID string
}

// ConflictsLoadedMsg signals that duplicate conflicts have been loaded
type ConflictsLoadedMsg struct {
	Conflicts []domain.Conflict
}

// ConflictResolvedMsg signals that a conflict was resolved
type ConflictResolvedMsg struct {
	ConflictID string
	Resolution domain.Resolution
}

// CategorySavedMsg signals that an expense was recategorized
type CategorySavedMsg struct {
	Expense domain.Expense
}

// ExpenseStatusSavedMsg signals that an expense review status changed
type ExpenseStatusSavedMsg struct {
	Expense domain.Expense
}

// SyncSessionLoadedMsg carries the server's current sync session, which
// may be the zero session when nothing is running
type SyncSessionLoadedMsg struct {
	Session domain.SyncSession
}

// SyncStartedMsg carries the session the server created for a new run
type SyncStartedMsg struct {
	Session domain.SyncSession
}

// SyncAttachedMsg carries a freshly opened progress stream
type SyncAttachedMsg struct {
	Stream domain.ProgressStream
}

// SyncAttachFailedMsg signals that the subscribe was rejected. There
// is no retry; the run continues server-side without a live view.
type SyncAttachFailedMsg struct {
	Err error
}

// SyncEventMsg carries one stream event plus the stream it came from
// so the read loop can be re-armed
type SyncEventMsg struct {
	Event  domain.SyncEvent
	Stream domain.ProgressStream
}

// SyncStreamClosedMsg signals that the stream ended. Err is nil for a
// local detach and non-nil when the server side dropped.
type SyncStreamClosedMsg struct {
	Stream domain.ProgressStream
	Err    error
}

// SearchDebounceMsg fires after the typing pause; stale sequence
// numbers are dropped
type SearchDebounceMsg struct {
	Seq int
}

// CategoryDebounceMsg refreshes category suggestions after a pause
type CategoryDebounceMsg struct {
	Seq int
}

// ReceiptOpenedMsg signals the receipt URL was handed to the browser
type ReceiptOpenedMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
