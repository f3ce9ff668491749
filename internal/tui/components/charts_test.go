package components

import (
	"strings"
	"testing"
	"time"

	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/shopspring/decimal"
)

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		max   float64
		want  int
	}{
		{"no spend", 0, 100, 0},
		{"negative guard", -5, 100, 0},
		{"zero max", 50, 0, 0},
		{"low spend", 1, 100, 1},
		{"mid spend", 50, 100, 2},
		{"high spend", 90, 100, 4},
		{"max spend", 100, 100, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := heatLevel(tt.total, tt.max); got != tt.want {
				t.Errorf("heatLevel(%v, %v) = %d, want %d", tt.total, tt.max, got, tt.want)
			}
		})
	}
}

func TestRenderMonthBars(t *testing.T) {
	i18n.SetLanguage("es")
	summaries := []domain.MonthSummary{
		{Month: "2025-06", Total: decimal.RequireFromString("840.10"), Count: 31},
		{Month: "2025-07", Total: decimal.RequireFromString("1203.55"), Count: 42},
	}

	out := RenderMonthBars(summaries, 60)

	for _, want := range []string{"jun 2025", "jul 2025", "1203,55 €"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Errorf("chart has %d lines, want 2", len(lines))
	}

	if empty := RenderMonthBars(nil, 60); empty == "" {
		t.Error("empty chart renders nothing")
	}
}

func TestRenderHeatmap(t *testing.T) {
	i18n.SetLanguage("es")
	base := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC) // a Monday
	days := []domain.DayTotal{
		{Date: base, Total: decimal.RequireFromString("25.00")},
		{Date: base.AddDate(0, 0, 3), Total: decimal.RequireFromString("80.00")},
	}

	out := RenderHeatmap(days, 4)

	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("heatmap has %d rows, want 7", len(lines))
	}
	for _, initial := range []string{"L", "X", "D"} {
		if !strings.Contains(out, initial) {
			t.Errorf("heatmap missing weekday initial %q", initial)
		}
	}
	if !strings.Contains(out, "■") {
		t.Error("heatmap has no cells")
	}
}
