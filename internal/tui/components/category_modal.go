package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// CategoryModal assigns a category to one expense. It offers ranked
// suggestions while typing and can turn the assignment into a merchant
// pattern rule on submit.
type CategoryModal struct {
	visible     bool
	expense     domain.Expense
	input       textinput.Model
	suggestions []string
	cursor      int // -1 means free text, otherwise an index into suggestions
	saveAsRule  bool
	prevQuery   string
}

// NewCategoryModal creates a new category modal
func NewCategoryModal() CategoryModal {
	ti := textinput.New()
	ti.Placeholder = i18n.T(i18n.KeyCategoryPrompt) + "..."
	ti.CharLimit = 40
	ti.Width = 30
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return CategoryModal{
		input:  ti,
		cursor: -1,
	}
}

// Show displays the modal for an expense with an initial suggestion set
func (m *CategoryModal) Show(expense domain.Expense, suggestions []string) {
	m.visible = true
	m.expense = expense
	m.suggestions = suggestions
	m.cursor = -1
	m.saveAsRule = false
	m.prevQuery = ""
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *CategoryModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m CategoryModal) IsVisible() bool {
	return m.visible
}

// Expense returns the expense being categorized
func (m CategoryModal) Expense() domain.Expense {
	return m.expense
}

// SetSuggestions replaces the suggestion list
func (m *CategoryModal) SetSuggestions(suggestions []string) {
	m.suggestions = suggestions
	if m.cursor >= len(suggestions) {
		m.cursor = -1
	}
}

// Query returns the typed text
func (m CategoryModal) Query() string {
	return m.input.Value()
}

// QueryChanged returns true if the typed text changed since last check
func (m *CategoryModal) QueryChanged() bool {
	current := m.input.Value()
	if current != m.prevQuery {
		m.prevQuery = current
		return true
	}
	return false
}

// Value returns the chosen category: the highlighted suggestion when
// one is selected, the typed text otherwise
func (m CategoryModal) Value() string {
	if m.cursor >= 0 && m.cursor < len(m.suggestions) {
		return m.suggestions[m.cursor]
	}
	return m.input.Value()
}

// SaveAsRule reports whether the assignment should also create a rule
func (m CategoryModal) SaveAsRule() bool {
	return m.saveAsRule
}

// Update handles input events, returns (modal, cmd, submitted)
func (m CategoryModal) Update(msg tea.Msg) (CategoryModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.Value() != "" {
				return m, nil, true
			}
			return m, nil, false
		case "esc":
			m.Hide()
			return m, nil, false
		case "ctrl+r":
			m.saveAsRule = !m.saveAsRule
			return m, nil, false
		case "down", "ctrl+n", "tab":
			if m.cursor < len(m.suggestions)-1 {
				m.cursor++
			}
			return m, nil, false
		case "up", "ctrl+p":
			if m.cursor > -1 {
				m.cursor--
			}
			return m, nil, false
		}
	}

	// Any other key goes to the input and drops back to free text
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.cursor = -1
	}
	return m, cmd, false
}

// View renders the category modal
func (m CategoryModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 40

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	titleStyle := lineStyle.
		Foreground(styles.White).
		Bold(true)

	var rows []string
	rows = append(rows, titleStyle.Render(i18n.T(i18n.KeyCategoryPrompt)))
	rows = append(rows, lineStyle.Foreground(styles.LightGray).Render(styles.Truncate(m.expense.Merchant, modalWidth)))
	rows = append(rows, lineStyle.Render(""))
	rows = append(rows, lineStyle.Render(m.input.View()))

	if len(m.suggestions) > 0 {
		rows = append(rows, lineStyle.Render(""))
		maxShown := 6
		for i, suggestion := range m.suggestions {
			if i >= maxShown {
				break
			}
			text := styles.Truncate(suggestion, modalWidth-2)
			if i == m.cursor {
				rows = append(rows, lineStyle.Render(styles.HighlightStyle.Render(text)))
			} else {
				rows = append(rows, lineStyle.Foreground(styles.LightGray).Render("  "+text))
			}
		}
	}

	rows = append(rows, lineStyle.Render(""))
	check := "[ ]"
	if m.saveAsRule {
		check = "[x]"
	}
	rows = append(rows, lineStyle.Foreground(styles.DimGray).Render(check+" "+i18n.T(i18n.KeySaveAsRule)))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Saffron).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
