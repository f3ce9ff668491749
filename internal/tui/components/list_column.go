package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Spinner frames for loading animation
var listColumnSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable list column that displays one content
// type at a time: months, expenses, rules or duplicate conflicts.
type ListColumn struct {
	months    []domain.MonthSummary
	expenses  []domain.Expense
	rules     []domain.Rule
	conflicts []domain.Conflict

	columnType ColumnType

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Column title (shown in header)
	title string

	// Loading state
	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into original slice
}

// NewListColumn creates a new list column with the given type and title
func NewListColumn(colType ColumnType, title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		columnType:  colType,
		title:       title,
		filterInput: ti,
	}
}

// NewMonthsColumn creates a column for displaying month summaries
func NewMonthsColumn(months []domain.MonthSummary) *ListColumn {
	col := NewListColumn(ColumnTypeMonths, i18n.T(i18n.KeyMonths))
	col.months = months
	return col
}

// NewExpensesColumn creates a column for displaying expenses
func NewExpensesColumn(title string, expenses []domain.Expense) *ListColumn {
	col := NewListColumn(ColumnTypeExpenses, title)
	col.expenses = expenses
	return col
}

// NewRulesColumn creates a column for displaying pattern rules
func NewRulesColumn(rules []domain.Rule) *ListColumn {
	col := NewListColumn(ColumnTypeRules, i18n.T(i18n.KeyRules))
	col.rules = rules
	return col
}

// NewConflictsColumn creates a column for displaying duplicate conflicts
func NewConflictsColumn(conflicts []domain.Conflict) *ListColumn {
	col := NewListColumn(ColumnTypeConflicts, i18n.T(i18n.KeyConflicts))
	col.conflicts = conflicts
	return col
}

func (c *ListColumn) Init() tea.Cmd {
	return nil
}

func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	// Handle filter input when active AND focused (typing mode)
	if c.filterActive && c.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				c.clearFilter()
				return c, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case "backspace":
				if c.filterInput.Value() == "" {
					c.clearFilter()
					return c, nil
				}
			}
		}

		// Route to textinput
		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	// Handle keys when filter is active but blurred (navigation mode with filter results)
	if c.filterActive {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				// Clear filter and show all items
				c.clearFilter()
				return c, nil
			case "/":
				// Re-activate filter input
				c.filterInput.Focus()
				return c, nil
			}
		}
		// Fall through to normal navigation handling
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if c.cursor < count-1 {
				c.cursor++
				c.ensureVisible()
			}
		case "k", "up":
			if c.cursor > 0 {
				c.cursor--
				c.ensureVisible()
			}
		case "g":
			c.cursor = 0
			c.offset = 0
		case "G":
			c.cursor = count - 1
			c.ensureVisible()
		case "ctrl+d":
			// Page down
			c.cursor += c.maxVisible / 2
			if c.cursor >= count {
				c.cursor = count - 1
			}
			c.ensureVisible()
		case "ctrl+u":
			// Page up
			c.cursor -= c.maxVisible / 2
			if c.cursor < 0 {
				c.cursor = 0
			}
			c.ensureVisible()
		}
	}

	return c, nil
}

func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(content)
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible() // Scroll to show selected item now that we know the size
}

func (c *ListColumn) Width() int {
	return c.width
}

func (c *ListColumn) Height() int {
	return c.height
}

func (c *ListColumn) SetFocused(focused bool) {
	c.focused = focused
}

func (c *ListColumn) IsFocused() bool {
	return c.focused
}

func (c *ListColumn) Title() string {
	return c.title
}

func (c *ListColumn) SetTitle(title string) {
	c.title = title
}

func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

func (c *ListColumn) SetSelectedIndex(idx int) {
	max := c.ItemCount() - 1
	if max < 0 {
		c.cursor = 0
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > max {
		idx = max
	}
	c.cursor = idx
	c.ensureVisible()
}

func (c *ListColumn) ItemCount() int {
	return c.filteredCount()
}

func (c *ListColumn) IsEmpty() bool {
	return c.ItemCount() == 0
}

func (c *ListColumn) SetLoading(loading bool) {
	c.loading = loading
}

func (c *ListColumn) IsLoading() bool {
	return c.loading
}

// ColumnType returns the column's content type
func (c *ListColumn) ColumnType() ColumnType {
	return c.columnType
}

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// Typed content setters. Each one resets selection and filter state.

func (c *ListColumn) SetMonths(months []domain.MonthSummary) {
	c.resetContent()
	c.months = months
	c.columnType = ColumnTypeMonths
}

func (c *ListColumn) SetExpenses(expenses []domain.Expense) {
	c.resetContent()
	c.expenses = expenses
	c.columnType = ColumnTypeExpenses
}

func (c *ListColumn) SetRules(rules []domain.Rule) {
	c.resetContent()
	c.rules = rules
	c.columnType = ColumnTypeRules
}

func (c *ListColumn) SetConflicts(conflicts []domain.Conflict) {
	c.resetContent()
	c.conflicts = conflicts
	c.columnType = ColumnTypeConflicts
}

func (c *ListColumn) resetContent() {
	c.loading = false
	c.cursor = 0
	c.offset = 0
	c.clearFilter()
}

// Typed selection accessors

// SelectedMonth returns the selected month summary, or nil
func (c *ListColumn) SelectedMonth() *domain.MonthSummary {
	if c.columnType != ColumnTypeMonths || c.ItemCount() == 0 || c.cursor >= c.ItemCount() {
		return nil
	}
	m := c.months[c.mapIndex(c.cursor)]
	return &m
}

// SelectedExpense returns the selected expense, or nil
func (c *ListColumn) SelectedExpense() *domain.Expense {
	if c.columnType != ColumnTypeExpenses || c.ItemCount() == 0 || c.cursor >= c.ItemCount() {
		return nil
	}
	e := c.expenses[c.mapIndex(c.cursor)]
	return &e
}

// SelectedRule returns the selected rule, or nil
func (c *ListColumn) SelectedRule() *domain.Rule {
	if c.columnType != ColumnTypeRules || c.ItemCount() == 0 || c.cursor >= c.ItemCount() {
		return nil
	}
	r := c.rules[c.mapIndex(c.cursor)]
	return &r
}

// SelectedConflict returns the selected conflict, or nil
func (c *ListColumn) SelectedConflict() *domain.Conflict {
	if c.columnType != ColumnTypeConflicts || c.ItemCount() == 0 || c.cursor >= c.ItemCount() {
		return nil
	}
	cf := c.conflicts[c.mapIndex(c.cursor)]
	return &cf
}

// UpdateExpense replaces the expense with the same ID in place,
// keeping cursor and filter state
func (c *ListColumn) UpdateExpense(expense domain.Expense) {
	for i := range c.expenses {
		if c.expenses[i].ID == expense.ID {
			c.expenses[i] = expense
			return
		}
	}
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *ListColumn) recalcMaxVisible() {
	// Interior height = total - border (top+bottom)
	// Reserve space for: title line + scroll indicators (header + footer)
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1 // -1 for title
	// Reserve space for filter bar when active
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	// Get labels and do case-insensitive matching
	labels := c.getLabels()
	lowerLabels := make([]string, len(labels))
	for i, l := range labels {
		lowerLabels[i] = strings.ToLower(l)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerLabels)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) getLabels() []string {
	switch c.columnType {
	case ColumnTypeMonths:
		labels := make([]string, len(c.months))
		for i, m := range c.months {
			labels[i] = i18n.MonthLabel(m.Month)
		}
		return labels
	case ColumnTypeExpenses:
		labels := make([]string, len(c.expenses))
		for i, e := range c.expenses {
			labels[i] = e.Merchant + " " + e.Category
		}
		return labels
	case ColumnTypeRules:
		labels := make([]string, len(c.rules))
		for i, r := range c.rules {
			labels[i] = r.Pattern + " " + r.Category
		}
		return labels
	case ColumnTypeConflicts:
		labels := make([]string, len(c.conflicts))
		for i, cf := range c.conflicts {
			labels[i] = cf.Left.Merchant
		}
		return labels
	default:
		return nil
	}
}

func (c *ListColumn) filteredCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return c.rawItemCount()
}

func (c *ListColumn) rawItemCount() int {
	switch c.columnType {
	case ColumnTypeMonths:
		return len(c.months)
	case ColumnTypeExpenses:
		return len(c.expenses)
	case ColumnTypeRules:
		return len(c.rules)
	case ColumnTypeConflicts:
		return len(c.conflicts)
	default:
		return 0
	}
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	// Content width = column width - border (2 chars for left+right border)
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	// Title line (styled, truncated to fit column width)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	// Loading state
	if c.loading {
		spinner := listColumnSpinnerFrames[c.spinnerFrame%len(listColumnSpinnerFrames)]
		loadingLine := styles.DimStyle.Render(spinner + " " + i18n.T(i18n.KeyLoading))
		return titleLine + "\n" + " " + "\n" + loadingLine + "\n" + " "
	}

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render(c.emptyText())
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("0 " + i18n.T(i18n.KeySearchResults))
		}
		return titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
	}

	var lines []string

	end := c.offset + c.maxVisible
	if end > count {
		end = count
	}

	for i := c.offset; i < end; i++ {
		selected := i == c.cursor
		idx := c.mapIndex(i)
		var line string

		switch c.columnType {
		case ColumnTypeMonths:
			line = c.renderMonthItem(c.months[idx], selected, itemWidth)
		case ColumnTypeExpenses:
			line = c.renderExpenseItem(c.expenses[idx], selected, itemWidth)
		case ColumnTypeRules:
			line = c.renderRuleItem(c.rules[idx], selected, itemWidth)
		case ColumnTypeConflicts:
			line = c.renderConflictItem(c.conflicts[idx], selected, itemWidth)
		}

		lines = append(lines, line)
	}

	// ALWAYS reserve space for header (even if empty) to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}

	// ALWAYS reserve space for footer (even if empty)
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := strings.Join(lines, "\n")
	content = titleLine + "\n" + header + "\n" + content + "\n" + footer

	// Add filter bar at bottom if active
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}

	return content
}

func (c *ListColumn) emptyText() string {
	switch c.columnType {
	case ColumnTypeExpenses:
		return i18n.T(i18n.KeyNoExpenses)
	case ColumnTypeRules:
		return i18n.T(i18n.KeyNoRules)
	case ColumnTypeConflicts:
		return i18n.T(i18n.KeyNoConflicts)
	default:
		return i18n.T(i18n.KeyLoading)
	}
}

func (c *ListColumn) renderMonthItem(m domain.MonthSummary, selected bool, width int) string {
	label := i18n.MonthLabel(m.Month)
	total := i18n.FormatMoney(m.Total, "EUR")

	// Available space: width - margins(2)
	gap := width - len(label) - len(total) - 2
	if gap < 1 {
		gap = 1
	}

	parts := []styles.RowPart{
		{Text: label, Foreground: nil},
		{Text: strings.Repeat(" ", gap), Foreground: nil},
		{Text: total, Foreground: &styles.LightGray},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderExpenseItem(e domain.Expense, selected bool, width int) string {
	var indicatorChar string
	var indicatorFg lipgloss.Color
	switch e.Status {
	case domain.ExpenseConfirmed:
		indicatorChar = styles.ConfirmedChar
		indicatorFg = styles.Green
	case domain.ExpenseDiscarded:
		indicatorChar = styles.DiscardedChar
		indicatorFg = styles.DimGray
	default:
		indicatorChar = styles.PendingChar
		indicatorFg = styles.Saffron
	}

	day := i18n.DayLabel(e.Date.Day(), int(e.Date.Month()))
	day = styles.Pad(day, 7)
	amount := i18n.FormatMoney(e.Amount, e.Currency)

	// Available space: indicator(1) + space + day(7) + space + merchant + gap + amount + margins(2)
	availableForMerchant := width - 4 - len(day) - len(amount) - 2
	if availableForMerchant < 5 {
		availableForMerchant = 5
	}
	merchant := styles.Truncate(e.Merchant, availableForMerchant)

	gap := width - 4 - len(day) - len(merchant) - len(amount) - 1
	if gap < 1 {
		gap = 1
	}

	parts := []styles.RowPart{
		{Text: indicatorChar, Foreground: &indicatorFg},
		{Text: " " + day, Foreground: &styles.DimGray},
		{Text: " " + merchant, Foreground: nil},
		{Text: strings.Repeat(" ", gap), Foreground: nil},
		{Text: amount, Foreground: nil},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderRuleItem(r domain.Rule, selected bool, width int) string {
	pattern := r.Pattern
	category := r.Category

	// Available space: pattern + " → " + category + confidence + margins
	confidence := fmt.Sprintf("%3.0f%%", r.Confidence*100)
	availableForPattern := width - len(category) - len(confidence) - 8
	if availableForPattern < 5 {
		availableForPattern = 5
	}
	pattern = styles.Truncate(pattern, availableForPattern)

	parts := []styles.RowPart{
		{Text: pattern, Foreground: nil},
		{Text: " → ", Foreground: &styles.DimGray},
		{Text: category, Foreground: &styles.Saffron},
	}

	gap := width - len(pattern) - 3 - len(category) - len(confidence) - 3
	if gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap), Foreground: nil})
	}
	parts = append(parts, styles.RowPart{Text: confidence, Foreground: &styles.DimGray})

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderConflictItem(cf domain.Conflict, selected bool, width int) string {
	merchant := cf.Left.Merchant
	amount := i18n.FormatMoney(cf.Left.Amount, cf.Left.Currency)
	reason := cf.Reason

	availableForMerchant := width - len(amount) - len(reason) - 8
	if availableForMerchant < 5 {
		availableForMerchant = 5
	}
	merchant = styles.Truncate(merchant, availableForMerchant)

	parts := []styles.RowPart{
		{Text: "⚠ ", Foreground: &styles.Saffron},
		{Text: merchant, Foreground: nil},
		{Text: " " + amount, Foreground: &styles.LightGray},
	}

	gap := width - 2 - len(merchant) - 1 - len(amount) - len(reason) - 3
	if gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap), Foreground: nil})
	}
	parts = append(parts, styles.RowPart{Text: reason, Foreground: &styles.DimGray})

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar() string {
	input := c.filterInput.View()
	count := c.ItemCount()
	total := c.rawItemCount()

	// Show match count
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", count, total))
	}

	return input + countStr
}
