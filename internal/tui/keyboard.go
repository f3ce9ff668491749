package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hvillar/gastos/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		// Releases the live progress handle before the program exits
		m.SyncPanel.Detach()
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		// Clear active filter if any
		if col := m.focusedColumn(); col != nil && col.IsFiltering() {
			col.ClearFilter()
			m.updateInspector()
		}
		return m, nil

	case key.Matches(msg, Keys.ViewExpenses):
		return m.switchView(ViewExpenses)

	case key.Matches(msg, Keys.ViewSync):
		return m.switchView(ViewSync)

	case key.Matches(msg, Keys.ViewSummary):
		return m.switchView(ViewSummary)

	case key.Matches(msg, Keys.ViewConflicts):
		return m.switchView(ViewConflicts)

	case key.Matches(msg, Keys.ViewRules):
		return m.switchView(ViewRules)

	case key.Matches(msg, Keys.Filter):
		// Activate filter in the focused column
		if col := m.focusedColumn(); col != nil {
			col.ToggleFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		// Fuzzy search over every indexed month
		m.Omnibar.Show()
		m.Omnibar.SetSize(m.Width, m.Height)
		return m, m.Omnibar.Init()

	case key.Matches(msg, Keys.Refresh):
		return m.refreshCurrentView()

	case key.Matches(msg, Keys.StartSync):
		if m.CurrentView == ViewSync {
			return m, StartSyncCmd(m.SyncSvc)
		}

	case key.Matches(msg, Keys.Left):
		if m.CurrentView == ViewExpenses {
			return m.shiftMonth(-1)
		}

	case key.Matches(msg, Keys.Right):
		if m.CurrentView == ViewExpenses {
			return m.shiftMonth(1)
		}

	case key.Matches(msg, Keys.Categorize):
		if m.CurrentView == ViewExpenses {
			if exp := m.ExpensesCol.SelectedExpense(); exp != nil {
				m.CategoryModal.Show(*exp, m.SearchSvc.SuggestCategories(""))
				return m, nil
			}
		}

	case key.Matches(msg, Keys.Enter):
		// Enter confirms an expense or opens a conflict, depending on
		// the view
		switch m.CurrentView {
		case ViewExpenses:
			if exp := m.ExpensesCol.SelectedExpense(); exp != nil {
				return m, SetExpenseStatusCmd(m.ExpenseSvc, *exp, domain.ExpenseConfirmed)
			}
		case ViewConflicts:
			if cf := m.ConflictsCol.SelectedConflict(); cf != nil {
				m.ConflictModal.Show(*cf)
				return m, nil
			}
		}

	case key.Matches(msg, Keys.Discard):
		if m.CurrentView == ViewExpenses {
			if exp := m.ExpensesCol.SelectedExpense(); exp != nil {
				return m, SetExpenseStatusCmd(m.ExpenseSvc, *exp, domain.ExpenseDiscarded)
			}
		}

	case key.Matches(msg, Keys.OpenReceipt):
		if m.CurrentView == ViewExpenses {
			if exp := m.ExpensesCol.SelectedExpense(); exp != nil && exp.ReceiptURL != "" {
				return m, OpenReceiptCmd(m.Browser, exp.ReceiptURL)
			}
		}

	case key.Matches(msg, Keys.Delete):
		if m.CurrentView == ViewRules {
			if rule := m.RulesCol.SelectedRule(); rule != nil {
				return m, DeleteRuleCmd(m.RuleSvc, rule.ID)
			}
		}
	}

	// Let the focused column handle remaining keys (j/k/g/G navigation)
	if col := m.focusedColumn(); col != nil {
		oldCursor := col.SelectedIndex()
		_, cmd := col.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if oldCursor != col.SelectedIndex() {
			m.updateInspector()
		}
	}

	return m, tea.Batch(cmds...)
}

// routeToModal routes key input to active modals
// Returns (handled, model, cmd) where handled is true if a modal consumed the input
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle category modal if visible
	if m.CategoryModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.CategoryModal, cmd, submitted = m.CategoryModal.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.CategoryModal.QueryChanged() {
			m.categorySeq++
			cmds = append(cmds, CategoryDebounceCmd(m.categorySeq))
		}
		if submitted {
			expense := m.CategoryModal.Expense()
			category := m.CategoryModal.Value()
			saveRule := m.CategoryModal.SaveAsRule()
			m.CategoryModal.Hide()
			cmds = append(cmds, SetCategoryCmd(m.ExpenseSvc, expense, category))
			if saveRule {
				rule := domain.Rule{
					Pattern:    expense.Merchant,
					Match:      domain.MatchContains,
					Category:   category,
					Confidence: 1.0,
				}
				cmds = append(cmds, SaveRuleCmd(m.RuleSvc, rule))
			}
		}
		return true, m, tea.Batch(cmds...)
	}

	// Handle conflict modal if visible
	if m.ConflictModal.IsVisible() {
		_, resolution := m.ConflictModal.HandleKey(msg.String())
		if resolution != nil {
			conflict := m.ConflictModal.Conflict()
			return true, m, ResolveConflictCmd(m.ConflictSvc, conflict.ID, *resolution)
		}
		return true, m, nil
	}

	// Handle omnibar if visible
	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		var selected bool
		m.Omnibar, cmd, selected = m.Omnibar.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.Omnibar.QueryChanged() {
			m.searchSeq++
			m.Omnibar.SetLoading(true)
			cmds = append(cmds, SearchDebounceCmd(m.searchSeq))
		}
		if selected {
			if hit := m.Omnibar.SelectedResult(); hit != nil {
				m.Omnibar.Hide()
				if navCmd := m.jumpToExpense(*hit); navCmd != nil {
					cmds = append(cmds, navCmd)
				}
			}
		}
		return true, m, tea.Batch(cmds...)
	}

	// Handle filter typing mode
	if col := m.focusedColumn(); col != nil && col.IsFilterTyping() {
		oldCursor := col.SelectedIndex()
		_, cmd := col.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if oldCursor != col.SelectedIndex() {
			m.updateInspector()
		}
		return true, m, tea.Batch(cmds...)
	}

	return false, m, nil
}
