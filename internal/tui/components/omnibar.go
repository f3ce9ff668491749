package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/service"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// Omnibar is the fuzzy search modal over all indexed expenses
type Omnibar struct {
	input     textinput.Model
	results   []service.ExpenseHit
	cursor    int
	visible   bool
	width     int
	height    int
	loading   bool
	prevQuery string // Track query changes for debounced searching
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = i18n.T(i18n.KeySearchPrompt)
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{
		input: ti,
	}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.loading = false
	o.prevQuery = ""
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetResults sets the search results
func (o *Omnibar) SetResults(results []service.ExpenseHit) {
	o.results = results
	o.cursor = 0
	o.loading = false
}

// SetLoading sets the loading state
func (o *Omnibar) SetLoading(loading bool) {
	o.loading = loading
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = width - 10
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SelectedResult returns the selected search result
func (o Omnibar) SelectedResult() *service.ExpenseHit {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return nil
	}
	return &o.results[o.cursor]
}

// ResultCount returns the number of results
func (o Omnibar) ResultCount() int {
	return len(o.results)
}

// Init initializes the component
func (o Omnibar) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages, returning true when a result was chosen
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			o.Hide()
			return o, nil, false

		case "enter":
			if len(o.results) > 0 {
				return o, nil, true // Selected
			}
			return o, nil, false

		case "down", "ctrl+n":
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, false

		case "up", "ctrl+p":
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false

		default:
			// Pass to text input
			o.input, cmd = o.input.Update(msg)
			return o, cmd, false
		}
	}

	// Handle other messages
	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the component
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	// Modal dimensions
	modalWidth := o.width * 2 / 3
	if modalWidth < 40 {
		modalWidth = 40
	}
	if modalWidth > 80 {
		modalWidth = 80
	}
	maxResults := 10

	var b strings.Builder

	// Input field
	b.WriteString(o.input.View())
	b.WriteString("\n\n")

	if o.loading {
		b.WriteString(styles.SpinnerStyle.Render(i18n.T(i18n.KeyLoading)))
	} else {
		o.renderResults(&b, modalWidth, maxResults)
	}

	// Center the modal
	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	// Center horizontally and vertically
	return lipgloss.Place(
		o.width,
		o.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

// renderResults renders the result rows with matched runes highlighted
func (o Omnibar) renderResults(b *strings.Builder, modalWidth, maxResults int) {
	if len(o.results) == 0 && o.input.Value() != "" {
		b.WriteString(styles.DimStyle.Render("0 " + i18n.T(i18n.KeySearchResults)))
		return
	}
	if len(o.results) == 0 {
		// Don't show anything when empty - placeholder already guides the user
		return
	}

	displayCount := len(o.results)
	if displayCount > maxResults {
		displayCount = maxResults
	}

	for i := 0; i < displayCount; i++ {
		hit := o.results[i]
		selected := i == o.cursor

		var line strings.Builder

		// Month badge
		line.WriteString(styles.BadgePendingStyle.Render(i18n.MonthLabel(hit.Month)))
		line.WriteString(" ")

		// Merchant with match highlighting
		maxMerchantWidth := modalWidth - 30
		if maxMerchantWidth < 10 {
			maxMerchantWidth = 10
		}
		line.WriteString(renderHighlightedMerchant(hit, maxMerchantWidth, selected))

		// Amount
		line.WriteString(" ")
		line.WriteString(styles.DimStyle.Render(i18n.FormatMoney(hit.Expense.Amount, hit.Expense.Currency)))

		b.WriteString(line.String())
		b.WriteString("\n")
	}

	if len(o.results) > maxResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... %d %s", len(o.results)-maxResults, i18n.T(i18n.KeySearchResults))))
	}
}

// renderHighlightedMerchant bolds the merchant runes the fuzzy match
// touched. Matched indexes beyond the merchant fall on the description
// or category and are not rendered here.
func renderHighlightedMerchant(hit service.ExpenseHit, width int, selected bool) string {
	merchant := styles.Truncate(hit.Expense.Merchant, width)

	matched := make(map[int]bool, len(hit.MatchedIndexes))
	for _, idx := range hit.MatchedIndexes {
		if idx < len(merchant) {
			matched[idx] = true
		}
	}

	base := lipgloss.NewStyle().Foreground(styles.LightGray)
	highlight := styles.MatchHighlightStyle
	if selected {
		base = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		highlight = styles.MatchHighlightSelectedStyle
	}

	if len(matched) == 0 {
		return base.Render(merchant)
	}

	var out strings.Builder
	for idx, r := range merchant {
		if matched[idx] {
			out.WriteString(highlight.Render(string(r)))
		} else {
			out.WriteString(base.Render(string(r)))
		}
	}
	return out.String()
}
