// Package i18n holds every user-facing string. Spanish is the default
// language; English is the fallback for missing keys.
package i18n

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Text keys
const (
	KeySyncTitle        = "sync_title"
	KeyProgressDone     = "progress_done"
	KeyProcessedEmails  = "processed_emails"
	KeyDetectedExpenses = "detected_expenses"
	KeyStatusPending    = "status_pending"
	KeyStatusProcessing = "status_processing"
	KeyStatusCompleted  = "status_completed"
	KeyStatusFailed     = "status_failed"
	KeySyncCompleted    = "sync_completed"
	KeySyncFailed       = "sync_failed"
	KeySyncErrorGeneric = "sync_error_generic"
	KeyNoSync           = "no_sync"
	KeyStartSyncHint    = "start_sync_hint"

	KeyExpenses      = "expenses"
	KeyMonths        = "months"
	KeySummary       = "summary"
	KeyConflicts     = "conflicts"
	KeyRules         = "rules"
	KeyLoading       = "loading"
	KeyNoExpenses    = "no_expenses"
	KeyNoConflicts   = "no_conflicts"
	KeyNoRules       = "no_rules"
	KeySearchResults = "search_results"
	KeySearchPrompt  = "search_prompt"

	KeyAccount       = "account"
	KeyCategory      = "category"
	KeyDate          = "date"
	KeyStatus        = "status"
	KeyEmailSubject  = "email_subject"
	KeyReceiptHint   = "receipt_hint"
	KeyUncategorized = "uncategorized"
	KeyExpPending    = "exp_pending"
	KeyExpConfirmed  = "exp_confirmed"
	KeyExpDiscarded  = "exp_discarded"

	KeyCategoryPrompt   = "category_prompt"
	KeySaveAsRule       = "save_as_rule"
	KeyRuleSaved        = "rule_saved"
	KeyCategorySaved    = "category_saved"
	KeyStatusSaved      = "status_saved"
	KeyKeepLeft         = "keep_left"
	KeyKeepRight        = "keep_right"
	KeyKeepBoth         = "keep_both"
	KeyConflictResolved = "conflict_resolved"
	KeyRulePreview      = "rule_preview"

	KeyServerOffline = "server_offline"
	KeyAuthFailed    = "auth_failed"

	KeyTotalSpent   = "total_spent"
	KeyHeatmapTitle = "heatmap_title"
)

var texts = map[string]map[string]string{
	"es": {
		KeySyncTitle:        "Sincronización",
		KeyProgressDone:     "completado",
		KeyProcessedEmails:  "Procesados",
		KeyDetectedExpenses: "Detectados",
		KeyStatusPending:    "Pendiente",
		KeyStatusProcessing: "Procesando",
		KeyStatusCompleted:  "Completado",
		KeyStatusFailed:     "Error",
		KeySyncCompleted:    "Sincronización completada",
		KeySyncFailed:       "Error de sincronización",
		KeySyncErrorGeneric: "Error desconocido durante la sincronización",
		KeyNoSync:           "No hay sincronización activa",
		KeyStartSyncHint:    "pulsa s para sincronizar",

		KeyExpenses:      "Gastos",
		KeyMonths:        "Meses",
		KeySummary:       "Resumen",
		KeyConflicts:     "Duplicados",
		KeyRules:         "Reglas",
		KeyLoading:       "cargando...",
		KeyNoExpenses:    "Sin gastos este mes",
		KeyNoConflicts:   "Sin duplicados pendientes",
		KeyNoRules:       "Sin reglas",
		KeySearchResults: "Resultados",
		KeySearchPrompt:  "buscar gastos...",

		KeyAccount:       "Cuenta",
		KeyCategory:      "Categoría",
		KeyDate:          "Fecha",
		KeyStatus:        "Estado",
		KeyEmailSubject:  "Asunto",
		KeyReceiptHint:   "o: abrir recibo",
		KeyUncategorized: "Sin categoría",
		KeyExpPending:    "Pendiente",
		KeyExpConfirmed:  "Confirmado",
		KeyExpDiscarded:  "Descartado",

		KeyCategoryPrompt:   "Nueva categoría",
		KeySaveAsRule:       "ctrl+r: guardar como regla",
		KeyRuleSaved:        "Regla guardada",
		KeyCategorySaved:    "Categoría actualizada",
		KeyStatusSaved:      "Estado actualizado",
		KeyKeepLeft:         "Conservar izquierda",
		KeyKeepRight:        "Conservar derecha",
		KeyKeepBoth:         "Conservar ambos",
		KeyConflictResolved: "Duplicado resuelto",
		KeyRulePreview:      "Regla",

		KeyServerOffline: "Servidor no disponible",
		KeyAuthFailed:    "Token inválido",

		KeyTotalSpent:   "Gasto mensual",
		KeyHeatmapTitle: "Actividad diaria",
	},
	"en": {
		KeySyncTitle:        "Sync",
		KeyProgressDone:     "complete",
		KeyProcessedEmails:  "Processed",
		KeyDetectedExpenses: "Detected",
		KeyStatusPending:    "Pending",
		KeyStatusProcessing: "Processing",
		KeyStatusCompleted:  "Completed",
		KeyStatusFailed:     "Failed",
		KeySyncCompleted:    "Sync completed",
		KeySyncFailed:       "Sync failed",
		KeySyncErrorGeneric: "Unknown error during sync",
		KeyNoSync:           "No sync in progress",
		KeyStartSyncHint:    "press s to sync",

		KeyExpenses:      "Expenses",
		KeyMonths:        "Months",
		KeySummary:       "Summary",
		KeyConflicts:     "Duplicates",
		KeyRules:         "Rules",
		KeyLoading:       "loading...",
		KeyNoExpenses:    "No expenses this month",
		KeyNoConflicts:   "No pending duplicates",
		KeyNoRules:       "No rules",
		KeySearchResults: "Results",
		KeySearchPrompt:  "search expenses...",

		KeyAccount:       "Account",
		KeyCategory:      "Category",
		KeyDate:          "Date",
		KeyStatus:        "Status",
		KeyEmailSubject:  "Subject",
		KeyReceiptHint:   "o: open receipt",
		KeyUncategorized: "Uncategorized",
		KeyExpPending:    "Pending",
		KeyExpConfirmed:  "Confirmed",
		KeyExpDiscarded:  "Discarded",

		KeyCategoryPrompt:   "New category",
		KeySaveAsRule:       "ctrl+r: save as rule",
		KeyRuleSaved:        "Rule saved",
		KeyCategorySaved:    "Category updated",
		KeyStatusSaved:      "Status updated",
		KeyKeepLeft:         "Keep left",
		KeyKeepRight:        "Keep right",
		KeyKeepBoth:         "Keep both",
		KeyConflictResolved: "Duplicate resolved",
		KeyRulePreview:      "Rule",

		KeyServerOffline: "Server unreachable",
		KeyAuthFailed:    "Invalid token",

		KeyTotalSpent:   "Monthly spend",
		KeyHeatmapTitle: "Daily activity",
	},
}

var monthShort = map[string][]string{
	"es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
	"en": {"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
}

// Weekday initials, Monday first
var dayInitials = map[string][]string{
	"es": {"L", "M", "X", "J", "V", "S", "D"},
	"en": {"M", "T", "W", "T", "F", "S", "S"},
}

// Language is set once at startup, before the UI runs
var current = "es"

// SetLanguage selects the UI language. Unknown languages keep the
// current one.
func SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := texts[lang]; ok {
		current = lang
	}
}

// Language returns the active language code
func Language() string {
	return current
}

// T returns the localized text for a key, falling back to English and
// finally to the key itself
func T(key string) string {
	if text, ok := texts[current][key]; ok {
		return text
	}
	if text, ok := texts["en"][key]; ok {
		return text
	}
	return key
}

// FormatMoney renders an amount the way the active language writes it:
// "23,50 €" in Spanish, "€23.50" in English. Unknown currencies keep
// their ISO code as a suffix.
func FormatMoney(amount decimal.Decimal, currency string) string {
	fixed := amount.StringFixed(2)

	symbol := ""
	switch strings.ToUpper(currency) {
	case "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	case "GBP":
		symbol = "£"
	}

	if current == "es" {
		fixed = strings.Replace(fixed, ".", ",", 1)
		if symbol != "" {
			return fixed + " " + symbol
		}
		return fixed + " " + strings.ToUpper(currency)
	}

	if symbol != "" {
		return symbol + fixed
	}
	return fixed + " " + strings.ToUpper(currency)
}

// MonthLabel renders a month key ("2025-07") as "jul 2025"
func MonthLabel(monthKey string) string {
	parts := strings.SplitN(monthKey, "-", 2)
	if len(parts) != 2 {
		return monthKey
	}
	var m int
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil || m < 1 || m > 12 {
		return monthKey
	}
	names, ok := monthShort[current]
	if !ok {
		names = monthShort["en"]
	}
	return names[m-1] + " " + parts[0]
}

// DayInitials returns the weekday initials for the active language,
// Monday first
func DayInitials() []string {
	if initials, ok := dayInitials[current]; ok {
		return initials
	}
	return dayInitials["en"]
}

// DayLabel renders a day as "9 jul" (es) or "jul 9" (en)
func DayLabel(day, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", day)
	}
	names, ok := monthShort[current]
	if !ok {
		names = monthShort["en"]
	}
	if current == "es" {
		return fmt.Sprintf("%d %s", day, names[month-1])
	}
	return fmt.Sprintf("%s %d", names[month-1], day)
}
