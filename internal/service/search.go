package service

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	rank "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/hvillar/gastos/internal/domain"
)

// ExpenseHit is a search result with match metadata for highlighting
type ExpenseHit struct {
	Expense        domain.Expense
	Month          string
	MatchedIndexes []int // Character positions in the indexed text that matched
	Score          int   // Match score (higher is better)
}

// expenseIndex implements sahilm/fuzzy.Source so matching runs without
// per-query allocations
type expenseIndex struct {
	expenses  []domain.Expense
	months    []string
	lowerText []string // Pre-computed "merchant description category"
}

// String returns the searchable text at index i (implements fuzzy.Source)
func (idx *expenseIndex) String(i int) string { return idx.lowerText[i] }

// Len returns the number of indexed expenses (implements fuzzy.Source)
func (idx *expenseIndex) Len() int { return len(idx.expenses) }

// SearchService fuzzy-matches expenses across every month the user has
// browsed. The index grows as months load and resets on cache wipes.
type SearchService struct {
	logger *slog.Logger

	mu      sync.RWMutex
	index   *expenseIndex
	indexed map[string]bool // Expense IDs already in the index

	catMu      sync.RWMutex
	categories []string // Distinct categories seen, sorted
}

// NewSearchService creates a new search service
func NewSearchService(logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		logger:  logger,
		index:   &expenseIndex{},
		indexed: make(map[string]bool),
	}
}

// IndexMonth adds a month's expenses to the index, deduplicating by ID
func (s *SearchService) IndexMonth(month string, expenses []domain.Expense) {
	s.mu.Lock()
	added := 0
	for _, e := range expenses {
		if s.indexed[e.ID] {
			continue
		}
		s.indexed[e.ID] = true
		s.index.expenses = append(s.index.expenses, e)
		s.index.months = append(s.index.months, month)
		s.index.lowerText = append(s.index.lowerText,
			strings.ToLower(strings.TrimSpace(e.Merchant+" "+e.Description+" "+e.Category)))
		added++
	}
	total := s.index.Len()
	s.mu.Unlock()

	s.noteCategories(expenses)
	s.logger.Debug("indexed expenses", "month", month, "added", added, "total", total)
}

// Filter returns indexed expenses matching the query, best match first
func (s *SearchService) Filter(query string) []ExpenseHit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || s.index.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, s.index)

	hits := make([]ExpenseHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, ExpenseHit{
			Expense:        s.index.expenses[m.Index],
			Month:          s.index.months[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return hits
}

// ClearIndex drops everything, for cache wipes and server switches
func (s *SearchService) ClearIndex() {
	s.mu.Lock()
	s.index = &expenseIndex{}
	s.indexed = make(map[string]bool)
	s.mu.Unlock()

	s.catMu.Lock()
	s.categories = nil
	s.catMu.Unlock()

	s.logger.Debug("cleared expense index")
}

// IndexCount returns the number of indexed expenses
func (s *SearchService) IndexCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// SuggestCategories ranks known categories against the typed input.
// Empty input returns every known category.
func (s *SearchService) SuggestCategories(input string) []string {
	s.catMu.RLock()
	defer s.catMu.RUnlock()

	if strings.TrimSpace(input) == "" {
		return append([]string(nil), s.categories...)
	}

	ranks := rank.RankFindNormalizedFold(input, s.categories)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

func (s *SearchService) noteCategories(expenses []domain.Expense) {
	s.catMu.Lock()
	defer s.catMu.Unlock()

	seen := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		seen[c] = true
	}

	changed := false
	for _, e := range expenses {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		s.categories = append(s.categories, e.Category)
		changed = true
	}
	if changed {
		sort.Strings(s.categories)
	}
}
