package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hvillar/gastos/internal/domain"
)

const summaryCacheTTL = 5 * time.Minute

// cachedSummary stores fetched aggregates with a timestamp
type cachedSummary[T any] struct {
	items     []T
	fetchedAt time.Time
}

func (c cachedSummary[T]) fresh() bool {
	return c.items != nil && time.Since(c.fetchedAt) < summaryCacheTTL
}

// SummaryService provides aggregated spending data for the charts view.
// Aggregates are cheap to recompute server-side, so they live in a
// short-lived memory cache rather than the store.
type SummaryService struct {
	repo   domain.SummaryRepository
	logger *slog.Logger

	mu      sync.Mutex
	months  cachedSummary[domain.MonthSummary]
	heatmap cachedSummary[domain.DayTotal]
}

// NewSummaryService creates a new summary service
func NewSummaryService(repo domain.SummaryRepository, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryService{
		repo:   repo,
		logger: logger,
	}
}

// GetMonthSummaries returns totals for the most recent n months, oldest first
func (s *SummaryService) GetMonthSummaries(ctx context.Context, months int) ([]domain.MonthSummary, error) {
	s.mu.Lock()
	if s.months.fresh() {
		items := s.months.items
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	items, err := s.repo.GetMonthSummaries(ctx, months)
	if err != nil {
		s.logger.Error("failed to get month summaries", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.months = cachedSummary[domain.MonthSummary]{items: items, fetchedAt: time.Now()}
	s.mu.Unlock()
	return items, nil
}

// GetDailyTotals returns per-day totals for the most recent n weeks
func (s *SummaryService) GetDailyTotals(ctx context.Context, weeks int) ([]domain.DayTotal, error) {
	s.mu.Lock()
	if s.heatmap.fresh() {
		items := s.heatmap.items
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	items, err := s.repo.GetDailyTotals(ctx, weeks)
	if err != nil {
		s.logger.Error("failed to get daily totals", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.heatmap = cachedSummary[domain.DayTotal]{items: items, fetchedAt: time.Now()}
	s.mu.Unlock()
	return items, nil
}

// Invalidate drops cached aggregates, used when a sync run finishes
func (s *SummaryService) Invalidate() {
	s.mu.Lock()
	s.months = cachedSummary[domain.MonthSummary]{}
	s.heatmap = cachedSummary[domain.DayTotal]{}
	s.mu.Unlock()
}
