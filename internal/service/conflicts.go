package service

import (
	"context"
	"log/slog"

	"github.com/hvillar/gastos/internal/domain"
)

// ConflictService manages suspected duplicate pairs
type ConflictService struct {
	repo   domain.ConflictRepository
	logger *slog.Logger
}

// NewConflictService creates a new conflict service
func NewConflictService(repo domain.ConflictRepository, logger *slog.Logger) *ConflictService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictService{
		repo:   repo,
		logger: logger,
	}
}

// GetConflicts returns all unresolved duplicate candidates
func (s *ConflictService) GetConflicts(ctx context.Context) ([]domain.Conflict, error) {
	conflicts, err := s.repo.GetConflicts(ctx)
	if err != nil {
		s.logger.Error("failed to get conflicts", "error", err)
		return nil, err
	}
	return conflicts, nil
}

// Resolve records the user's decision for one pair
func (s *ConflictService) Resolve(ctx context.Context, conflictID string, resolution domain.Resolution) error {
	if err := s.repo.Resolve(ctx, conflictID, resolution); err != nil {
		s.logger.Error("failed to resolve conflict", "conflict", conflictID, "error", err)
		return err
	}
	s.logger.Info("conflict resolved", "conflict", conflictID, "resolution", resolution)
	return nil
}
