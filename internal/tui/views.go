package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/components"
	"github.com/hvillar/gastos/internal/tui/styles"
)

func (m Model) View() string {
	if !m.Ready {
		return i18n.T(i18n.KeyLoading)
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	availableWidth := m.Width
	contentHeight := m.Height - ChromeHeight
	layout := m.calculateLayout(availableWidth)

	var content string
	switch m.CurrentView {
	case ViewExpenses:
		m.MonthsCol.SetSize(layout.monthsWidth, contentHeight)
		m.ExpensesCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.MonthsCol.View(),
			m.ExpensesCol.View(),
			m.Inspector.View(),
		)

	case ViewSync:
		m.SyncPanel.SetSize(layout.listWidth, contentHeight)
		content = m.SyncPanel.View()

	case ViewSummary:
		content = m.renderSummary(availableWidth, contentHeight)

	case ViewConflicts:
		m.ConflictsCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.ConflictsCol.View(),
			m.Inspector.View(),
		)

	case ViewRules:
		m.RulesCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.RulesCol.View(),
			m.Inspector.View(),
		)
	}

	// Toasts paint over the top rows of the content area; whole rows
	// are swapped out so styling escapes stay balanced
	if m.Toasts.Count() > 0 {
		content = overlayToasts(content, m.Toasts.View(availableWidth), availableWidth)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabBar(),
		content,
		m.renderFooter(),
	)

	// Overlay omnibar if visible
	if m.Omnibar.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Omnibar.View())
	}

	// Overlay category modal if visible
	if m.CategoryModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.CategoryModal.View())
	}

	// Overlay conflict modal if visible
	if m.ConflictModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.ConflictModal.View())
	}

	return view
}

// renderTabBar renders the view switcher line
func (m Model) renderTabBar() string {
	tabs := []struct {
		view  View
		num   string
		label string
	}{
		{ViewExpenses, "1", i18n.T(i18n.KeyExpenses)},
		{ViewSync, "2", i18n.T(i18n.KeySyncTitle)},
		{ViewSummary, "3", i18n.T(i18n.KeySummary)},
		{ViewConflicts, "4", i18n.T(i18n.KeyConflicts)},
		{ViewRules, "5", i18n.T(i18n.KeyRules)},
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.num + " " + t.label
		if t.view == m.CurrentView {
			parts = append(parts, styles.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, styles.TabInactiveStyle.Render(label))
		}
	}

	return strings.Join(parts, " ")
}

// renderSummary renders the charts view
func (m Model) renderSummary(width, height int) string {
	bars := components.RenderMonthBars(m.monthSummaries, width-4)
	heat := components.RenderHeatmap(m.dailyTotals, m.Config.UI.HeatmapWeeks)

	block := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TitleStyle.Render(i18n.T(i18n.KeyTotalSpent)),
		"",
		bars,
		"",
		styles.TitleStyle.Render(i18n.T(i18n.KeyHeatmapTitle)),
		"",
		heat,
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(width).
		Height(height).
		Render(block)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: status message when one is active
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Center section: context-specific hints for the active view
	var center string
	switch m.CurrentView {
	case ViewExpenses:
		center = hint(Keys.Categorize) + "  " + hint(Keys.Confirm) + "  " + hint(Keys.Discard)
	case ViewSync:
		center = hint(Keys.StartSync)
	case ViewConflicts:
		center = hint(Keys.Confirm)
	case ViewRules:
		center = hint(Keys.Delete)
	}

	// Right side: help hint
	right := hint(Keys.Help)

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// hint formats one key binding for the footer
func hint(b key.Binding) string {
	h := b.Help()
	return styles.AccentStyle.Render(h.Key) + styles.DimStyle.Render(" "+h.Desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVEGACIÓN                         GASTOS
  j/k        Subir/bajar              enter  Confirmar gasto
  h/l        Mes anterior/siguiente   x      Descartar gasto
  g/Inicio   Primer elemento          c      Categorizar
  G/Fin      Último elemento          o      Abrir recibo

VISTAS                             OTROS
  1-5        Cambiar de vista         r      Recargar
  /          Filtrar columna          s      Sincronizar
  f          Buscar en todo           d      Eliminar regla
  esc        Cerrar / cancelar        q      Salir

Pulsa esc o ? para volver...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// overlayToasts paints toast lines over the top rows of already
// rendered content
func overlayToasts(content, toasts string, width int) string {
	contentLines := strings.Split(content, "\n")
	toastLines := strings.Split(toasts, "\n")

	for i, line := range toastLines {
		if i >= len(contentLines) {
			break
		}
		contentLines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Right, line)
	}

	return strings.Join(contentLines, "\n")
}
