package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hvillar/gastos/internal/domain"
)

// expenseCacheTTL bounds how long a cached month is served without a
// refetch. Sync completion invalidates the cache regardless.
const expenseCacheTTL = 15 * time.Minute

// ExpenseService handles expense browsing with store-backed caching
type ExpenseService struct {
	repo     domain.ExpenseRepository
	accounts domain.AccountRepository
	store    domain.Store
	logger   *slog.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(repo domain.ExpenseRepository, accounts domain.AccountRepository, store domain.Store, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		repo:     repo,
		accounts: accounts,
		store:    store,
		logger:   logger,
	}
}

// GetExpenses returns a month's expenses, cache-first. When the server
// is unreachable a stale cached month is served rather than nothing.
func (s *ExpenseService) GetExpenses(ctx context.Context, month string) ([]domain.Expense, error) {
	floor := time.Now().Add(-expenseCacheTTL).Unix()
	if s.store.IsValid(month, floor) {
		if expenses, ok := s.store.GetExpenses(month); ok {
			s.logger.Debug("cache hit", "month", month, "count", len(expenses))
			return expenses, nil
		}
	}

	expenses, err := s.repo.GetExpenses(ctx, month)
	if err != nil {
		if cached, ok := s.store.GetExpenses(month); ok {
			s.logger.Warn("serving stale month after fetch failure", "month", month, "error", err)
			return cached, nil
		}
		s.logger.Error("failed to get expenses", "month", month, "error", err)
		return nil, err
	}

	if err := s.store.SaveExpenses(month, expenses, time.Now().Unix()); err != nil {
		s.logger.Warn("failed to cache month", "month", month, "error", err)
	}
	return expenses, nil
}

// GetAccounts returns connected mail accounts, cache-first
func (s *ExpenseService) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	if accounts, ok := s.store.GetAccounts(); ok {
		return accounts, nil
	}

	accounts, err := s.accounts.GetAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to get accounts", "error", err)
		return nil, err
	}

	if err := s.store.SaveAccounts(accounts); err != nil {
		s.logger.Warn("failed to cache accounts", "error", err)
	}
	return accounts, nil
}

// SetCategory updates the category on the server and patches the
// cached month so the change shows without a refetch
func (s *ExpenseService) SetCategory(ctx context.Context, expense domain.Expense, category string) error {
	if err := s.repo.SetCategory(ctx, expense.ID, category); err != nil {
		return err
	}
	s.patchCached(expense.Month(), expense.ID, func(e *domain.Expense) {
		e.Category = category
	})
	s.logger.Info("category set", "expense", expense.ID, "category", category)
	return nil
}

// SetStatus confirms or discards an expense, write-through like SetCategory
func (s *ExpenseService) SetStatus(ctx context.Context, expense domain.Expense, status domain.ExpenseStatus) error {
	if err := s.repo.SetStatus(ctx, expense.ID, status); err != nil {
		return err
	}
	s.patchCached(expense.Month(), expense.ID, func(e *domain.Expense) {
		e.Status = status
	})
	s.logger.Info("status set", "expense", expense.ID, "status", status)
	return nil
}

func (s *ExpenseService) patchCached(month, id string, patch func(*domain.Expense)) {
	expenses, ok := s.store.GetExpenses(month)
	if !ok {
		return
	}
	for i := range expenses {
		if expenses[i].ID == id {
			patch(&expenses[i])
			break
		}
	}
	if err := s.store.SaveExpenses(month, expenses, time.Now().Unix()); err != nil {
		s.logger.Warn("failed to patch cached month", "month", month, "error", err)
	}
}

// InvalidateAfterSync wipes the cache so a finished sync run's new
// expenses show on the next read
func (s *ExpenseService) InvalidateAfterSync() {
	s.store.InvalidateAll()
	s.logger.Debug("cache invalidated after sync")
}
