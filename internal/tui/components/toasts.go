package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// How long a toast stays on screen
const toastTTL = 4 * time.Second

// ToastLevel classifies a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is one ephemeral notification
type Toast struct {
	ID    int
	Level ToastLevel
	Text  string
}

// ExpireToastMsg asks for the removal of a single toast
type ExpireToastMsg struct {
	ID int
}

// Toasts is a stack of auto-dismissing notifications. Every Push
// schedules exactly one expiry for the new toast; expiring an ID that
// is already gone does nothing.
type Toasts struct {
	items  []Toast
	nextID int
}

// NewToasts creates an empty toast stack
func NewToasts() *Toasts {
	return &Toasts{}
}

// Push adds a toast and returns the command that will dismiss it
func (t *Toasts) Push(level ToastLevel, text string) tea.Cmd {
	id := t.nextID
	t.nextID++
	t.items = append(t.items, Toast{ID: id, Level: level, Text: text})

	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return ExpireToastMsg{ID: id}
	})
}

// Expire removes the toast with the given ID, if it is still shown
func (t *Toasts) Expire(id int) {
	for i, toast := range t.items {
		if toast.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Count returns the number of visible toasts
func (t *Toasts) Count() int {
	return len(t.items)
}

// Items returns the visible toasts in display order
func (t *Toasts) Items() []Toast {
	return t.items
}

// View renders the toast stack, newest last
func (t *Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(t.items))
	for _, toast := range t.items {
		text := styles.Truncate(toast.Text, width-2)
		switch toast.Level {
		case ToastSuccess:
			lines = append(lines, styles.ToastSuccessStyle.Render(text))
		case ToastError:
			lines = append(lines, styles.ToastErrorStyle.Render(text))
		default:
			lines = append(lines, styles.ToastInfoStyle.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}
