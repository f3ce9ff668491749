package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// RenderMonthBars renders a horizontal bar per month, scaled to the
// largest total in the set
func RenderMonthBars(summaries []domain.MonthSummary, width int) string {
	if len(summaries) == 0 {
		return styles.DimStyle.Render(i18n.T(i18n.KeyNoExpenses))
	}

	maxTotal := 0.0
	labelWidth := 0
	amountWidth := 0
	for _, s := range summaries {
		if t := s.Total.InexactFloat64(); t > maxTotal {
			maxTotal = t
		}
		if l := len(i18n.MonthLabel(s.Month)); l > labelWidth {
			labelWidth = l
		}
		if a := len(i18n.FormatMoney(s.Total, "EUR")); a > amountWidth {
			amountWidth = a
		}
	}

	barWidth := width - labelWidth - amountWidth - 4
	if barWidth < 5 {
		barWidth = 5
	}
	if barWidth > 40 {
		barWidth = 40
	}

	var lines []string
	for _, s := range summaries {
		label := styles.Pad(i18n.MonthLabel(s.Month), labelWidth)
		amount := i18n.FormatMoney(s.Total, "EUR")

		filled := 0
		if maxTotal > 0 {
			filled = int(s.Total.InexactFloat64() / maxTotal * float64(barWidth))
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := styles.AccentStyle.Render(strings.Repeat("█", filled)) +
			styles.DimStyle.Render(strings.Repeat("░", barWidth-filled))

		lines = append(lines, styles.SubtitleStyle.Render(label)+" "+bar+" "+styles.DimStyle.Render(amount))
	}

	return strings.Join(lines, "\n")
}

// RenderHeatmap renders a contribution-style grid of daily spending
// for the trailing weeks, one column per week, Monday first
func RenderHeatmap(days []domain.DayTotal, weeks int) string {
	if weeks < 1 {
		weeks = 1
	}

	totals := make(map[string]float64, len(days))
	var latest time.Time
	maxTotal := 0.0
	for _, d := range days {
		t := d.Total.InexactFloat64()
		totals[d.Date.Format("2006-01-02")] = t
		if d.Date.After(latest) {
			latest = d.Date
		}
		if t > maxTotal {
			maxTotal = t
		}
	}
	if latest.IsZero() {
		latest = time.Now()
	}

	// Align the last column to the week holding the latest day
	weekday := int(latest.Weekday()+6) % 7 // Monday = 0
	end := latest.AddDate(0, 0, 6-weekday)
	start := end.AddDate(0, 0, -(weeks*7 - 1))

	initials := i18n.DayInitials()
	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString(styles.DimStyle.Render(initials[row] + " "))
		for col := 0; col < weeks; col++ {
			day := start.AddDate(0, 0, col*7+row)
			if day.After(latest) {
				b.WriteString("  ")
				continue
			}
			level := heatLevel(totals[day.Format("2006-01-02")], maxTotal)
			cell := lipgloss.NewStyle().Foreground(styles.HeatLevels[level]).Render("■")
			b.WriteString(cell + " ")
		}
		if row < 6 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// heatLevel buckets a daily total into one of the five heat colors
func heatLevel(total, max float64) int {
	if total <= 0 || max <= 0 {
		return 0
	}
	level := 1 + int(total/max*3.999)
	if level > 4 {
		level = 4
	}
	return level
}
