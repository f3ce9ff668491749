package domain

// Store handles local cache (BoltDB + memory).
// TUI reads go through services, which consult the Store first.
type Store interface {
	// === Accounts ===
	GetAccounts() ([]Account, bool)
	SaveAccounts(accounts []Account) error

	// === Expenses, bucketed by month key ===
	GetExpenses(month string) ([]Expense, bool)
	SaveExpenses(month string, expenses []Expense, serverTS int64) error

	// === Rules ===
	GetRules() ([]Rule, bool)
	SaveRules(rules []Rule) error

	// === Freshness ===
	IsValid(month string, serverTS int64) bool

	// === Invalidation ===
	InvalidateMonth(month string)
	InvalidateRules()
	InvalidateAll()

	Close() error
}
