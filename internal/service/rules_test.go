package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/store"
)

type fakeRuleRepo struct {
	rules   []domain.Rule
	fetches int
	nextID  int
}

func (f *fakeRuleRepo) GetRules(ctx context.Context) ([]domain.Rule, error) {
	f.fetches++
	return f.rules, nil
}

func (f *fakeRuleRepo) CreateRule(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	f.nextID++
	rule.ID = fmt.Sprintf("r%d", f.nextID)
	f.rules = append(f.rules, rule)
	return rule, nil
}

func (f *fakeRuleRepo) DeleteRule(ctx context.Context, ruleID string) error {
	kept := f.rules[:0]
	for _, r := range f.rules {
		if r.ID != ruleID {
			kept = append(kept, r)
		}
	}
	f.rules = kept
	return nil
}

func newRuleFixture(t *testing.T, repo *fakeRuleRepo) *RuleService {
	t.Helper()
	st, err := store.NewExpenseStore("", "")
	if err != nil {
		t.Fatalf("NewExpenseStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewRuleService(repo, st, discardLogger())
}

func TestGetRulesCaches(t *testing.T) {
	repo := &fakeRuleRepo{rules: []domain.Rule{
		{ID: "r1", Pattern: "mercadona", Match: domain.MatchContains, Category: "Supermercado"},
	}}
	svc := newRuleFixture(t, repo)

	for i := 0; i < 2; i++ {
		rules, err := svc.GetRules(context.Background())
		if err != nil {
			t.Fatalf("GetRules: %v", err)
		}
		if len(rules) != 1 {
			t.Fatalf("got %d rules", len(rules))
		}
	}
	if repo.fetches != 1 {
		t.Errorf("fetches = %d, want 1", repo.fetches)
	}
}

func TestCreateRuleUpdatesLocalCopy(t *testing.T) {
	repo := &fakeRuleRepo{}
	svc := newRuleFixture(t, repo)

	if _, err := svc.GetRules(context.Background()); err != nil {
		t.Fatalf("GetRules: %v", err)
	}

	created, err := svc.CreateRule(context.Background(), domain.Rule{
		Pattern: "netflix", Match: domain.MatchContains, Category: "Suscripciones",
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if created.ID == "" {
		t.Error("expected server-assigned id")
	}

	// Preview must see the new rule without another fetch
	rule, ok := svc.Preview("NETFLIX.COM")
	if !ok {
		t.Fatal("Preview found no rule")
	}
	if rule.Category != "Suscripciones" {
		t.Errorf("preview category = %q", rule.Category)
	}
	if repo.fetches != 1 {
		t.Errorf("fetches = %d, want 1", repo.fetches)
	}
}

func TestDeleteRuleUpdatesLocalCopy(t *testing.T) {
	repo := &fakeRuleRepo{rules: []domain.Rule{
		{ID: "r1", Pattern: "uber", Match: domain.MatchContains, Category: "Transporte"},
	}}
	svc := newRuleFixture(t, repo)

	if _, err := svc.GetRules(context.Background()); err != nil {
		t.Fatalf("GetRules: %v", err)
	}

	if err := svc.DeleteRule(context.Background(), "r1"); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}

	if _, ok := svc.Preview("UBER EATS"); ok {
		t.Error("deleted rule still previews")
	}
}

func TestPreviewWithoutCachedRules(t *testing.T) {
	svc := newRuleFixture(t, &fakeRuleRepo{})

	if _, ok := svc.Preview("anything"); ok {
		t.Error("expected no preview before rules are loaded")
	}
}
