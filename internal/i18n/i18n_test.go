package i18n

import (
	"testing"

	"github.com/shopspring/decimal"
)

func setLang(t *testing.T, lang string) {
	t.Helper()
	prev := current
	SetLanguage(lang)
	t.Cleanup(func() { current = prev })
}

func TestSpanishIsDefault(t *testing.T) {
	setLang(t, "es")

	if got := T(KeyStatusCompleted); got != "Completado" {
		t.Errorf("T(KeyStatusCompleted) = %q, want %q", got, "Completado")
	}
	if got := T(KeyProgressDone); got != "completado" {
		t.Errorf("T(KeyProgressDone) = %q, want %q", got, "completado")
	}
	if got := T(KeySyncCompleted); got != "Sincronización completada" {
		t.Errorf("T(KeySyncCompleted) = %q", got)
	}
}

func TestFallbackChain(t *testing.T) {
	setLang(t, "es")

	// missing key falls through to the key itself
	if got := T("no_such_key"); got != "no_such_key" {
		t.Errorf("T(no_such_key) = %q, want key echoed back", got)
	}
}

func TestSetLanguageIgnoresUnknown(t *testing.T) {
	setLang(t, "es")

	SetLanguage("fr")
	if Language() != "es" {
		t.Errorf("Language() = %q after unknown SetLanguage, want es", Language())
	}

	SetLanguage("EN ")
	if Language() != "en" {
		t.Errorf("Language() = %q, want en", Language())
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		amount   string
		currency string
		want     string
	}{
		{"spanish euro", "es", "23.5", "EUR", "23,50 €"},
		{"spanish dollar", "es", "10", "USD", "10,00 $"},
		{"spanish unknown currency", "es", "5.25", "CHF", "5,25 CHF"},
		{"english euro", "en", "23.5", "EUR", "€23.50"},
		{"english unknown currency", "en", "5.25", "CHF", "5.25 CHF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLang(t, tt.lang)
			amount := decimal.RequireFromString(tt.amount)
			if got := FormatMoney(amount, tt.currency); got != tt.want {
				t.Errorf("FormatMoney(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestMonthLabel(t *testing.T) {
	setLang(t, "es")

	if got := MonthLabel("2025-07"); got != "jul 2025" {
		t.Errorf("MonthLabel(2025-07) = %q, want %q", got, "jul 2025")
	}
	if got := MonthLabel("garbage"); got != "garbage" {
		t.Errorf("MonthLabel(garbage) = %q, want input echoed back", got)
	}
	if got := MonthLabel("2025-13"); got != "2025-13" {
		t.Errorf("MonthLabel(2025-13) = %q, want input echoed back", got)
	}
}

func TestDayLabel(t *testing.T) {
	setLang(t, "es")
	if got := DayLabel(9, 7); got != "9 jul" {
		t.Errorf("DayLabel(9, 7) = %q, want %q", got, "9 jul")
	}

	setLang(t, "en")
	if got := DayLabel(9, 7); got != "jul 9" {
		t.Errorf("DayLabel(9, 7) = %q, want %q", got, "jul 9")
	}
}
