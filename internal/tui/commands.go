package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hvillar/gastos/internal/adapter"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/service"
)

// Command factories for async operations

// LoadAccountsCmd loads the connected mail accounts
func LoadAccountsCmd(svc *service.ExpenseService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		accounts, err := svc.GetAccounts(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading accounts"}
		}
		return AccountsLoadedMsg{Accounts: accounts}
	}
}

// LoadExpensesCmd loads one month of expenses
func LoadExpensesCmd(svc *service.ExpenseService, month string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		expenses, err := svc.GetExpenses(ctx, month)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading expenses"}
		}
		return ExpensesLoadedMsg{Month: month, Expenses: expenses}
	}
}

// LoadMonthSummariesCmd loads the per-month totals for the charts view
func LoadMonthSummariesCmd(svc *service.SummaryService, months int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		summaries, err := svc.GetMonthSummaries(ctx, months)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading month summaries"}
		}
		return MonthSummariesLoadedMsg{Summaries: summaries}
	}
}

// LoadDailyTotalsCmd loads per-day totals for the spending heatmap
func LoadDailyTotalsCmd(svc *service.SummaryService, weeks int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		days, err := svc.GetDailyTotals(ctx, weeks)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading daily totals"}
		}
		return DailyTotalsLoadedMsg{Days: days}
	}
}

// LoadRulesCmd loads categorization rules
func LoadRulesCmd(svc *service.RuleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rules, err := svc.GetRules(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading rules"}
		}
		return RulesLoadedMsg{Rules: rules}
	}
}

// SaveRuleCmd creates a rule on the server
func SaveRuleCmd(svc *service.RuleService, rule domain.Rule) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		created, err := svc.CreateRule(ctx, rule)
		if err != nil {
			return ErrMsg{Err: err, Context: "saving rule"}
		}
		return RuleSavedMsg{Rule: created}
	}
}

// DeleteRuleCmd removes a rule
func DeleteRuleCmd(svc *service.RuleService, ruleID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.DeleteRule(ctx, ruleID); err != nil {
			return ErrMsg{Err: err, Context: "deleting rule"}
		}
		return RuleDeletedMsg{RuleID: ruleID}
	}
}

// LoadConflictsCmd loads suspected duplicate pairs
func LoadConflictsCmd(svc *service.ConflictService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conflicts, err := svc.GetConflicts(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading conflicts"}
		}
		return ConflictsLoadedMsg{Conflicts: conflicts}
	}
}

// ResolveConflictCmd records the user's decision for a duplicate pair
func ResolveConflictCmd(svc *service.ConflictService, conflictID string, resolution domain.Resolution) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.Resolve(ctx, conflictID, resolution); err != nil {
			return ErrMsg{Err: err, Context: "resolving conflict"}
		}
		return ConflictResolvedMsg{ConflictID: conflictID, Resolution: resolution}
	}
}

// SetCategoryCmd recategorizes an expense
func SetCategoryCmd(svc *service.ExpenseService, expense domain.Expense, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.SetCategory(ctx, expense, category); err != nil {
			return ErrMsg{Err: err, Context: "saving category"}
		}
		expense.Category = category
		return CategorySavedMsg{Expense: expense}
	}
}

// SetExpenseStatusCmd confirms or discards an expense
func SetExpenseStatusCmd(svc *service.ExpenseService, expense domain.Expense, status domain.ExpenseStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := svc.SetStatus(ctx, expense, status); err != nil {
			return ErrMsg{Err: err, Context: "saving status"}
		}
		expense.Status = status
		return ExpenseStatusSavedMsg{Expense: expense}
	}
}

// OpenReceiptCmd hands the receipt URL to the system browser
func OpenReceiptCmd(browser *adapter.Browser, url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening receipt"}
		}
		return ReceiptOpenedMsg{}
	}
}

// LoadSessionCmd asks the server for the current sync session
func LoadSessionCmd(svc *service.SyncService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := svc.Current(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading sync session"}
		}
		return SyncSessionLoadedMsg{Session: session}
	}
}

// StartSyncCmd asks the server to begin a sync run
func StartSyncCmd(svc *service.SyncService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		session, err := svc.Start(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "starting sync"}
		}
		return SyncStartedMsg{Session: session}
	}
}

// AttachSyncCmd opens the progress stream for a session. Rejection is
// reported once and never retried.
func AttachSyncCmd(svc *service.SyncService, session domain.SyncSession) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		stream, err := svc.Attach(ctx, session)
		if err != nil {
			return SyncAttachFailedMsg{Err: err}
		}
		return SyncAttachedMsg{Stream: stream}
	}
}

// ListenSyncCmd reads one event from the stream. The resulting
// SyncEventMsg carries the stream so the update loop can re-arm the
// read; a read error ends the loop with SyncStreamClosedMsg.
func ListenSyncCmd(stream domain.ProgressStream) tea.Cmd {
	return func() tea.Msg {
		event, err := stream.Next()
		if err != nil {
			if errors.Is(err, domain.ErrStreamClosed) {
				return SyncStreamClosedMsg{Stream: stream}
			}
			return SyncStreamClosedMsg{Stream: stream, Err: err}
		}
		return SyncEventMsg{Event: event, Stream: stream}
	}
}

// SearchDebounceCmd fires the omnibar query after a typing pause
func SearchDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq}
	})
}

// CategoryDebounceCmd refreshes category suggestions after a pause
func CategoryDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return CategoryDebounceMsg{Seq: seq}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
