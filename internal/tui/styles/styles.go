package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Saffron    = lipgloss.Color("#EAB308")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Heatmap intensity scale, darkest to brightest
var HeatLevels = []lipgloss.Color{
	lipgloss.Color("#374151"),
	lipgloss.Color("#064E3B"),
	lipgloss.Color("#047857"),
	lipgloss.Color("#10B981"),
	lipgloss.Color("#6EE7B7"),
}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Saffron)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)

	NoBorder = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder())
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Saffron)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Saffron).
			Padding(0, 1)
)

// Raw expense status characters (unstyled)
const (
	PendingChar   = "●"
	ConfirmedChar = "✓"
	DiscardedChar = "✗"
)

// Expense status indicator styles
var (
	PendingStyle   = lipgloss.NewStyle().Foreground(Saffron)
	ConfirmedStyle = lipgloss.NewStyle().Foreground(Green)
	DiscardedStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// Pre-rendered expense status indicators (for non-selection contexts)
var (
	PendingDot     = PendingStyle.Render(PendingChar)
	ConfirmedCheck = ConfirmedStyle.Render(ConfirmedChar)
	DiscardedCross = DiscardedStyle.Render(DiscardedChar)
)

// Panel styles
var (
	SidebarStyle = lipgloss.NewStyle().
			Padding(1, 2)

	BrowserStyle = lipgloss.NewStyle().
			Padding(1, 2)

	InspectorStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	FocusedItemStyle = lipgloss.NewStyle().
				Foreground(Saffron).
				Bold(true).
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Saffron).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Saffron)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Tab bar styles
var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Saffron).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Saffron)

	ProgressErrorStyle = lipgloss.NewStyle().
				Foreground(Red)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Sync status badge styles
var (
	BadgePendingStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Background(SlateLight).
				Padding(0, 1)

	BadgeProcessingStyle = lipgloss.NewStyle().
				Foreground(SlateDark).
				Background(Saffron).
				Padding(0, 1)

	BadgeCompletedStyle = lipgloss.NewStyle().
				Foreground(SlateDark).
				Background(Green).
				Padding(0, 1)

	BadgeFailedStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)
)

// Toast styles
var (
	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateLight).
			Padding(0, 1)

	ToastSuccessStyle = lipgloss.NewStyle().
				Foreground(SlateDark).
				Background(Green).
				Padding(0, 1)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Red).
			Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Saffron)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Saffron)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Saffron).
				Bold(true)
)

// Match highlight styles for search results
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Saffron).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(Saffron).
					Background(SlateLight).
					Bold(true)
)

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		if width > len(s) {
			return s
		}
		return s[:width]
	}
	return s[:width-3] + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + spaces(width-len(s))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// RenderProgressBar renders a progress bar. A failed bar keeps its
// fill but switches to the error color.
func RenderProgressBar(percent float64, width int, failed bool) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	fullStyle := ProgressFullStyle
	if failed {
		fullStyle = ProgressErrorStyle
	}

	bar := ""
	for i := 0; i < filled; i++ {
		bar += fullStyle.Render("█")
	}
	for i := filled; i < width; i++ {
		bar += ProgressEmptyStyle.Render("░")
	}

	return bar
}

// RenderListRow renders a complete list row with uniform background when selected.
// This function styles each part explicitly to avoid ANSI reset code issues.
// parts is a slice of {text, fgColor} pairs. Use nil for default foreground.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight
	defaultFg := LightGray
	selectedFg := White

	var result string
	visibleLen := 0

	for _, part := range parts {
		style := lipgloss.NewStyle()
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		} else if selected {
			style = style.Foreground(selectedFg)
		} else {
			style = style.Foreground(defaultFg)
		}
		if selected {
			style = style.Background(bg)
		}
		result += style.Render(part.Text)
		visibleLen += lipgloss.Width(part.Text)
	}

	// Add padding to fill width (subtract 2 for left/right margin)
	paddingNeeded := width - visibleLen - 2
	if paddingNeeded > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(bg)
		}
		result += padStyle.Render(spaces(paddingNeeded))
	}

	// Add margins
	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}
	margin := marginStyle.Render(" ")

	return margin + result + margin
}

// RowPart represents a part of a row with optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
