package service

import (
	"testing"

	"github.com/hvillar/gastos/internal/domain"
)

func indexedService() *SearchService {
	s := NewSearchService(discardLogger())
	s.IndexMonth("2025-07", []domain.Expense{
		{ID: "e1", Merchant: "Mercadona", Description: "compra semanal", Category: "Supermercado"},
		{ID: "e2", Merchant: "Renfe", Description: "AVE Madrid", Category: "Transporte"},
	})
	s.IndexMonth("2025-06", []domain.Expense{
		{ID: "e3", Merchant: "Netflix", Category: "Suscripciones"},
		{ID: "e1", Merchant: "Mercadona"}, // duplicate ID, must be skipped
	})
	return s
}

func TestFilterFindsByMerchant(t *testing.T) {
	s := indexedService()

	hits := s.Filter("mercadona")
	if len(hits) == 0 {
		t.Fatal("expected a hit for mercadona")
	}
	if hits[0].Expense.ID != "e1" {
		t.Errorf("best hit = %s, want e1", hits[0].Expense.ID)
	}
	if hits[0].Month != "2025-07" {
		t.Errorf("hit month = %s, want 2025-07 (first indexing wins)", hits[0].Month)
	}
}

func TestFilterMatchesDescriptionAndCategory(t *testing.T) {
	s := indexedService()

	if hits := s.Filter("madrid"); len(hits) == 0 || hits[0].Expense.ID != "e2" {
		t.Errorf("description search failed: %v", hits)
	}
	if hits := s.Filter("suscrip"); len(hits) == 0 || hits[0].Expense.ID != "e3" {
		t.Errorf("category search failed: %v", hits)
	}
}

func TestFilterEmptyQuery(t *testing.T) {
	s := indexedService()
	if hits := s.Filter("   "); hits != nil {
		t.Errorf("blank query must return nil, got %d hits", len(hits))
	}
}

func TestIndexDeduplicatesByID(t *testing.T) {
	s := indexedService()
	if got := s.IndexCount(); got != 3 {
		t.Errorf("IndexCount = %d, want 3 (e1 indexed once)", got)
	}
}

func TestClearIndex(t *testing.T) {
	s := indexedService()
	s.ClearIndex()

	if got := s.IndexCount(); got != 0 {
		t.Errorf("IndexCount after clear = %d", got)
	}
	if hits := s.Filter("mercadona"); hits != nil {
		t.Errorf("expected no hits after clear, got %d", len(hits))
	}
	if cats := s.SuggestCategories(""); len(cats) != 0 {
		t.Errorf("expected no categories after clear, got %v", cats)
	}
}

func TestSuggestCategories(t *testing.T) {
	s := indexedService()

	all := s.SuggestCategories("")
	if len(all) != 3 {
		t.Fatalf("got %d categories, want 3: %v", len(all), all)
	}
	// Sorted when input is empty
	if all[0] != "Supermercado" || all[1] != "Suscripciones" || all[2] != "Transporte" {
		t.Errorf("categories = %v", all)
	}

	ranked := s.SuggestCategories("transp")
	if len(ranked) == 0 || ranked[0] != "Transporte" {
		t.Errorf("SuggestCategories(transp) = %v", ranked)
	}
}
