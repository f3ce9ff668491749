package domain

import "testing"

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		merchant string
		want     bool
	}{
		{
			name:     "contains is case-insensitive",
			rule:     Rule{Pattern: "mercadona", Match: MatchContains},
			merchant: "MERCADONA VALENCIA 042",
			want:     true,
		},
		{
			name:     "contains miss",
			rule:     Rule{Pattern: "carrefour", Match: MatchContains},
			merchant: "Mercadona",
			want:     false,
		},
		{
			name:     "empty match type falls back to contains",
			rule:     Rule{Pattern: "uber"},
			merchant: "UBER *EATS",
			want:     true,
		},
		{
			name:     "prefix hit",
			rule:     Rule{Pattern: "amzn", Match: MatchPrefix},
			merchant: "AMZN Mktp ES",
			want:     true,
		},
		{
			name:     "prefix only matches at start",
			rule:     Rule{Pattern: "amzn", Match: MatchPrefix},
			merchant: "payment AMZN",
			want:     false,
		},
		{
			name:     "regex hit",
			rule:     Rule{Pattern: `netflix\.?com?`, Match: MatchRegex},
			merchant: "NETFLIX.COM",
			want:     true,
		},
		{
			name:     "invalid regex never matches",
			rule:     Rule{Pattern: "ne(tflix", Match: MatchRegex},
			merchant: "ne(tflix",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.merchant); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.merchant, got, tt.want)
			}
		})
	}
}

func TestFirstMatch(t *testing.T) {
	rules := []Rule{
		{ID: "1", Pattern: "uber eats", Match: MatchContains, Category: "Restaurantes"},
		{ID: "2", Pattern: "uber", Match: MatchContains, Category: "Transporte"},
	}

	r, ok := FirstMatch(rules, "UBER EATS MADRID")
	if !ok {
		t.Fatal("expected a match")
	}
	if r.ID != "1" {
		t.Errorf("expected first rule in order to win, got rule %s", r.ID)
	}

	if _, ok := FirstMatch(rules, "RENFE"); ok {
		t.Error("expected no match for RENFE")
	}

	if _, ok := FirstMatch(nil, "anything"); ok {
		t.Error("expected no match against empty rule set")
	}
}
