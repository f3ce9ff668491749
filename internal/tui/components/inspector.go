package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays detailed metadata for the selected item
type Inspector struct {
	item       interface{}
	accounts   map[int64]domain.Account
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{
		accounts: make(map[int64]domain.Account),
	}
}

// SetItem sets the item to display
func (i *Inspector) SetItem(item interface{}) {
	i.item = item
	i.offset = 0 // Reset scroll on item change
}

// SetAccounts provides the account directory used to label expenses
func (i *Inspector) SetAccounts(accounts []domain.Account) {
	i.accounts = make(map[int64]domain.Account, len(accounts))
	for _, acc := range accounts {
		i.accounts[acc.ID] = acc
	}
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Calculate max visible lines (reserve space for border, scroll indicators, and title)
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2 // -1 for title, -1 for blank line
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// Update handles messages (currently no-op, inspector is not focusable)
func (i Inspector) Update(_ tea.Msg) (Inspector, tea.Cmd) {
	return i, nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars (1 each side), leave 1 char safety margin
	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.renderInspector(contentWidth)

	// Title line (styled, matching other columns)
	titleLine := styles.AccentStyle.Render(styles.Truncate("Info", contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	// Calculate available space for body
	availableForBody := i.maxVisible - len(headerLines) - len(footerLines)
	if availableForBody < 1 {
		availableForBody = 1
	}

	// Clamp body scroll offset
	totalBodyLines := len(bodyLines)
	maxOffset := totalBodyLines - availableForBody
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := i.offset
	if offset > maxOffset {
		offset = maxOffset
	}

	// Get visible body window
	end := offset + availableForBody
	if end > totalBodyLines {
		end = totalBodyLines
	}
	visibleBody := bodyLines[offset:end]

	// Scroll indicators for body only
	header := " "
	if offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < totalBodyLines {
		footer = styles.DimStyle.Render("↓ more")
	}

	// Assemble: title + header zone + scroll-up indicator + visible body + padding + scroll-down indicator + footer zone
	var parts []string
	parts = append(parts, titleLine)
	parts = append(parts, "")

	// Header zone (fixed)
	if len(headerLines) > 0 && content.header != "" {
		parts = append(parts, strings.Join(headerLines, "\n"))
	}

	// Scroll-up indicator
	parts = append(parts, header)

	// Visible body
	if len(visibleBody) > 0 {
		parts = append(parts, strings.Join(visibleBody, "\n"))
	}

	// Pad between body end and footer if body is shorter than available space
	visibleBodyCount := len(visibleBody)
	if visibleBodyCount < availableForBody {
		padding := availableForBody - visibleBodyCount
		for j := 0; j < padding; j++ {
			parts = append(parts, "")
		}
	}

	// Scroll-down indicator
	parts = append(parts, footer)

	// Footer zone (fixed, pinned to bottom)
	if len(footerLines) > 0 && content.footer != "" {
		parts = append(parts, strings.Join(footerLines, "\n"))
	}

	rendered := strings.Join(parts, "\n")

	// Subtract frame (border) size so total rendered size equals i.width x i.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(rendered)
}

// renderInspector renders the inspector panel content as three zones
func (i Inspector) renderInspector(width int) inspectorContent {
	switch v := i.item.(type) {
	case *domain.Expense:
		return i.renderExpenseInspector(*v, width)
	case domain.Expense:
		return i.renderExpenseInspector(v, width)
	case *domain.Rule:
		return inspectorContent{header: renderRuleInspector(*v, width)}
	case *domain.Conflict:
		return i.renderConflictInspector(*v, width)
	default:
		return inspectorContent{body: styles.DimStyle.Render(i18n.T(i18n.KeyNoExpenses))}
	}
}

func (i Inspector) renderExpenseInspector(e domain.Expense, width int) inspectorContent {
	var header strings.Builder

	// Merchant and amount
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(e.Merchant, width)))
	header.WriteString("\n")
	header.WriteString(styles.AccentStyle.Render(i18n.FormatMoney(e.Amount, e.Currency)))
	header.WriteString("\n")

	// Meta line: date · account
	var metaParts []string
	metaParts = append(metaParts, e.Date.Format("02/01/2006"))
	if acc, ok := i.accounts[e.AccountID]; ok {
		metaParts = append(metaParts, acc.Name)
	}
	header.WriteString(styles.DimStyle.Render(strings.Join(metaParts, " · ")))
	header.WriteString("\n")

	// Category and review status
	category := e.Category
	if category == "" {
		category = i18n.T(i18n.KeyUncategorized)
	}
	header.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyCategory)+": ") + styles.AccentStyle.Render(category))
	header.WriteString("\n")
	header.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyStatus)+": ") + renderExpenseStatus(e.Status))

	// Body: description and email subject
	var body strings.Builder
	bodyWidth := width - 2
	if bodyWidth > 80 {
		bodyWidth = 80
	}
	if e.Description != "" {
		body.WriteString(styles.SubtitleStyle.Render(wordWrap(e.Description, bodyWidth)))
	}
	if e.EmailSubject != "" {
		if body.Len() > 0 {
			body.WriteString("\n\n")
		}
		body.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyEmailSubject) + ":"))
		body.WriteString("\n")
		body.WriteString(styles.SubtitleStyle.Render(wordWrap(e.EmailSubject, bodyWidth)))
	}

	// Footer: receipt hint
	footer := ""
	if e.ReceiptURL != "" {
		separator := strings.Repeat("─", width)
		footer = styles.DimStyle.Render(separator) + "\n" + styles.DimStyle.Render(i18n.T(i18n.KeyReceiptHint))
	}

	return inspectorContent{
		header: strings.TrimRight(header.String(), "\n"),
		body:   body.String(),
		footer: footer,
	}
}

func renderExpenseStatus(status domain.ExpenseStatus) string {
	switch status {
	case domain.ExpenseConfirmed:
		return styles.ConfirmedStyle.Render(styles.ConfirmedChar + " " + i18n.T(i18n.KeyExpConfirmed))
	case domain.ExpenseDiscarded:
		return styles.DiscardedStyle.Render(styles.DiscardedChar + " " + i18n.T(i18n.KeyExpDiscarded))
	default:
		return styles.PendingStyle.Render(styles.PendingChar + " " + i18n.T(i18n.KeyExpPending))
	}
}

func renderRuleInspector(r domain.Rule, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(r.Pattern, width)))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyCategory)+": ") + styles.AccentStyle.Render(r.Category))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s: %s", "Match", string(r.Match))))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s: %.0f%%", "Confianza", r.Confidence*100)))

	return b.String()
}

func (i Inspector) renderConflictInspector(cf domain.Conflict, width int) inspectorContent {
	var header strings.Builder

	header.WriteString(styles.TitleStyle.Render(styles.Truncate(cf.Left.Merchant, width)))
	header.WriteString("\n")
	header.WriteString(styles.DimStyle.Render(cf.Reason))

	half := width / 2
	if half < 14 {
		half = 14
	}

	renderSide := func(e domain.Expense) string {
		var s strings.Builder
		s.WriteString(styles.AccentStyle.Render(i18n.FormatMoney(e.Amount, e.Currency)))
		s.WriteString("\n")
		s.WriteString(styles.DimStyle.Render(e.Date.Format("02/01/2006")))
		s.WriteString("\n")
		if acc, ok := i.accounts[e.AccountID]; ok {
			s.WriteString(styles.DimStyle.Render(acc.Name))
			s.WriteString("\n")
		}
		s.WriteString(styles.SubtitleStyle.Render(styles.Truncate(e.EmailSubject, half-2)))
		return s.String()
	}

	sideStyle := lipgloss.NewStyle().Width(half)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		sideStyle.Render(renderSide(cf.Left)),
		" ",
		renderSide(cf.Right),
	)

	return inspectorContent{
		header: header.String(),
		body:   body,
	}
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := len(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
