package service

import (
	"context"
	"log/slog"

	"github.com/hvillar/gastos/internal/domain"
)

// RuleService manages categorization rules. A store-backed copy keeps
// rule preview instant while the server stays the source of truth.
type RuleService struct {
	repo   domain.RuleRepository
	store  domain.Store
	logger *slog.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(repo domain.RuleRepository, store domain.Store, logger *slog.Logger) *RuleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// GetRules returns all rules, cache-first
func (s *RuleService) GetRules(ctx context.Context) ([]domain.Rule, error) {
	if rules, ok := s.store.GetRules(); ok {
		return rules, nil
	}

	rules, err := s.repo.GetRules(ctx)
	if err != nil {
		s.logger.Error("failed to get rules", "error", err)
		return nil, err
	}

	if err := s.store.SaveRules(rules); err != nil {
		s.logger.Warn("failed to cache rules", "error", err)
	}
	return rules, nil
}

// CreateRule stores a new rule on the server and refreshes the local copy
func (s *RuleService) CreateRule(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	created, err := s.repo.CreateRule(ctx, rule)
	if err != nil {
		s.logger.Error("failed to create rule", "pattern", rule.Pattern, "error", err)
		return domain.Rule{}, err
	}

	if rules, ok := s.store.GetRules(); ok {
		if err := s.store.SaveRules(append(rules, created)); err != nil {
			s.logger.Warn("failed to cache new rule", "error", err)
		}
	}

	s.logger.Info("rule created", "pattern", created.Pattern, "category", created.Category)
	return created, nil
}

// DeleteRule removes a rule on the server and locally
func (s *RuleService) DeleteRule(ctx context.Context, ruleID string) error {
	if err := s.repo.DeleteRule(ctx, ruleID); err != nil {
		s.logger.Error("failed to delete rule", "rule", ruleID, "error", err)
		return err
	}

	if rules, ok := s.store.GetRules(); ok {
		kept := rules[:0]
		for _, r := range rules {
			if r.ID != ruleID {
				kept = append(kept, r)
			}
		}
		if err := s.store.SaveRules(kept); err != nil {
			s.logger.Warn("failed to update cached rules", "error", err)
		}
	}

	s.logger.Info("rule deleted", "rule", ruleID)
	return nil
}

// Preview returns the first cached rule that would categorize the
// merchant, for showing the user before they commit an edit
func (s *RuleService) Preview(merchant string) (domain.Rule, bool) {
	rules, ok := s.store.GetRules()
	if !ok {
		return domain.Rule{}, false
	}
	return domain.FirstMatch(rules, merchant)
}
