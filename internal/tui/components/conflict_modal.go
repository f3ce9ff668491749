package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// ConflictModal is a small popup for resolving one duplicate conflict
type ConflictModal struct {
	visible  bool
	conflict domain.Conflict
	cursor   int
}

var conflictChoices = []domain.Resolution{
	domain.KeepLeft,
	domain.KeepRight,
	domain.KeepBoth,
}

// NewConflictModal creates a new conflict modal
func NewConflictModal() ConflictModal {
	return ConflictModal{}
}

// Show displays the modal for a conflict
func (m *ConflictModal) Show(conflict domain.Conflict) {
	m.visible = true
	m.conflict = conflict
	m.cursor = 0
}

// Hide dismisses the modal
func (m *ConflictModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConflictModal) IsVisible() bool {
	return m.visible
}

// Conflict returns the conflict being resolved
func (m ConflictModal) Conflict() domain.Conflict {
	return m.conflict
}

// HandleKey processes a key press, returns (handled, resolution).
// If resolution is non-nil, the user confirmed a choice.
func (m *ConflictModal) HandleKey(key string) (handled bool, resolution *domain.Resolution) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(conflictChoices)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "1":
		m.cursor = 0
		return true, nil
	case "2":
		m.cursor = 1
		return true, nil
	case "3":
		m.cursor = 2
		return true, nil
	case "enter":
		chosen := conflictChoices[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

func choiceLabel(r domain.Resolution) string {
	switch r {
	case domain.KeepLeft:
		return i18n.T(i18n.KeyKeepLeft)
	case domain.KeepRight:
		return i18n.T(i18n.KeyKeepRight)
	case domain.KeepBoth:
		return i18n.T(i18n.KeyKeepBoth)
	default:
		return string(r)
	}
}

// View renders the conflict modal
func (m ConflictModal) View() string {
	if !m.visible {
		return ""
	}

	const labelWidth = 26

	summarize := func(e domain.Expense) string {
		return e.Date.Format("02/01") + "  " + i18n.FormatMoney(e.Amount, e.Currency) + "  " + styles.Truncate(e.EmailSubject, 24)
	}

	var lines []string
	lines = append(lines, styles.SubtitleStyle.Render(styles.Truncate(m.conflict.Left.Merchant, labelWidth+14)))
	lines = append(lines, styles.DimStyle.Render("1  "+summarize(m.conflict.Left)))
	lines = append(lines, styles.DimStyle.Render("2  "+summarize(m.conflict.Right)))
	lines = append(lines, "")

	for i, choice := range conflictChoices {
		text := styles.Pad(choiceLabel(choice), labelWidth)
		if i == m.cursor {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}

	content := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Saffron).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render(m.conflict.Reason) + "\n" + content)
}
