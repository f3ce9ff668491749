package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Home  key.Binding
	End   key.Binding

	// Views
	ViewExpenses  key.Binding
	ViewSync      key.Binding
	ViewSummary   key.Binding
	ViewConflicts key.Binding
	ViewRules     key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Filter      key.Binding
	Search      key.Binding
	Refresh     key.Binding
	StartSync   key.Binding
	Categorize  key.Binding
	Confirm     key.Binding
	Discard     key.Binding
	OpenReceipt key.Binding
	Delete      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "bajar"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "mes anterior"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "mes siguiente"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirmar"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "al principio"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "al final"),
		),

		// Views
		ViewExpenses: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "gastos"),
		),
		ViewSync: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sincronización"),
		),
		ViewSummary: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "resumen"),
		),
		ViewConflicts: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "conflictos"),
		),
		ViewRules: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "reglas"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "salir"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ayuda"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancelar"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filtrar"),
		),
		Search: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "buscar en todo"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recargar"),
		),
		StartSync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sincronizar"),
		),
		Categorize: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categorizar"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirmar gasto"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "descartar"),
		),
		OpenReceipt: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "abrir recibo"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "eliminar"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
