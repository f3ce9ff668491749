package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hvillar/gastos/internal/domain"
)

func testExpenses() []domain.Expense {
	return []domain.Expense{
		{
			ID:        "e1",
			AccountID: 7,
			Date:      time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC),
			Merchant:  "Mercadona",
			Amount:    decimal.RequireFromString("23.50"),
			Currency:  "EUR",
			Category:  "Supermercado",
			Status:    domain.ExpenseConfirmed,
		},
		{
			ID:        "e2",
			AccountID: 7,
			Date:      time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
			Merchant:  "Renfe",
			Amount:    decimal.RequireFromString("45.10"),
			Currency:  "EUR",
			Status:    domain.ExpensePending,
		},
	}
}

func TestExpenseRoundtrip(t *testing.T) {
	s, err := NewExpenseStore(t.TempDir(), "http://localhost:8787")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetExpenses("2025-07"); ok {
		t.Fatal("expected miss on empty store")
	}

	if err := s.SaveExpenses("2025-07", testExpenses(), 100); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	got, ok := s.GetExpenses("2025-07")
	if !ok {
		t.Fatal("expected hit after save")
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("23.50")) {
		t.Errorf("amount = %s after roundtrip", got[0].Amount)
	}
	if got[1].Status != domain.ExpensePending {
		t.Errorf("status = %q after roundtrip", got[1].Status)
	}

	// Other months stay independent
	if _, ok := s.GetExpenses("2025-08"); ok {
		t.Error("expected miss for a month never saved")
	}
}

func TestFreshness(t *testing.T) {
	s, err := NewExpenseStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	defer s.Close()

	if s.IsValid("2025-07", 100) {
		t.Error("empty store must not be valid")
	}

	if err := s.SaveExpenses("2025-07", testExpenses(), 200); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	if !s.IsValid("2025-07", 150) {
		t.Error("stored ts 200 should satisfy floor 150")
	}
	if s.IsValid("2025-07", 300) {
		t.Error("stored ts 200 must not satisfy floor 300")
	}
}

func TestInvalidateMonth(t *testing.T) {
	s, err := NewExpenseStore(t.TempDir(), "srv")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	defer s.Close()

	if err := s.SaveExpenses("2025-07", testExpenses(), 200); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	s.InvalidateMonth("2025-07")

	if _, ok := s.GetExpenses("2025-07"); ok {
		t.Error("expected miss after invalidation")
	}
	if s.IsValid("2025-07", 0) {
		t.Error("freshness marker must be gone after invalidation")
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewExpenseStore("", "")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	defer s.Close()

	accounts := []domain.Account{{ID: 1, Name: "Personal", Email: "a@b.es"}}
	if err := s.SaveAccounts(accounts); err != nil {
		t.Fatalf("SaveAccounts: %v", err)
	}

	got, ok := s.GetAccounts()
	if !ok || len(got) != 1 || got[0].Name != "Personal" {
		t.Errorf("GetAccounts = %v, %v", got, ok)
	}

	s.InvalidateAll()
	if _, ok := s.GetAccounts(); ok {
		t.Error("expected miss after InvalidateAll")
	}
}

func TestRulesRoundtrip(t *testing.T) {
	s, err := NewExpenseStore(t.TempDir(), "srv")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	defer s.Close()

	rules := []domain.Rule{
		{ID: "r1", Pattern: "mercadona", Match: domain.MatchContains, Category: "Supermercado", Confidence: 0.92},
	}
	if err := s.SaveRules(rules); err != nil {
		t.Fatalf("SaveRules: %v", err)
	}

	got, ok := s.GetRules()
	if !ok || len(got) != 1 {
		t.Fatalf("GetRules = %v, %v", got, ok)
	}
	if got[0].Match != domain.MatchContains || got[0].Confidence != 0.92 {
		t.Errorf("rule = %+v after roundtrip", got[0])
	}

	s.InvalidateRules()
	if _, ok := s.GetRules(); ok {
		t.Error("expected miss after InvalidateRules")
	}
}
