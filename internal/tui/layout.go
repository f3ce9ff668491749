package tui

// viewLayout holds calculated pane widths for the active view
type viewLayout struct {
	monthsWidth    int // 0 if not shown
	listWidth      int
	inspectorWidth int // 0 if not shown
}

// calculateLayout computes pane widths for the current view
func (m Model) calculateLayout(availableWidth int) viewLayout {
	layout := viewLayout{}

	// Helper to apply minimum width
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	switch m.CurrentView {
	case ViewExpenses:
		// [Months | Expenses | Inspector]
		layout.monthsWidth = applyMin(availableWidth * MonthsColumnPercent / 100)
		layout.inspectorWidth = applyMin(availableWidth * InspectorColumnPercent / 100)
		layout.listWidth = applyMin(availableWidth - layout.monthsWidth - layout.inspectorWidth)

	case ViewConflicts, ViewRules:
		// [List | Inspector]
		layout.listWidth = applyMin(availableWidth * SideColumnPercent / 100)
		layout.inspectorWidth = applyMin(availableWidth - layout.listWidth)

	default:
		// Sync and summary views take the whole row
		layout.listWidth = availableWidth
	}

	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	m.Omnibar.SetSize(m.Width, m.Height)

	layout := m.calculateLayout(m.Width)

	switch m.CurrentView {
	case ViewExpenses:
		m.MonthsCol.SetSize(layout.monthsWidth, contentHeight)
		m.ExpensesCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

	case ViewConflicts:
		m.ConflictsCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

	case ViewRules:
		m.RulesCol.SetSize(layout.listWidth, contentHeight)
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)

	case ViewSync:
		m.SyncPanel.SetSize(layout.listWidth, contentHeight)
	}
}
