package components

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/tui/styles"
)

// Spinner frames for the attaching animation
var syncSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NoticeLevel classifies a notice produced by a stream event
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
)

// Notice is a user-facing message a stream event asks the app to show
type Notice struct {
	Level NoticeLevel
	Text  string
}

// SyncPanel projects a server-side sync run onto the screen. It owns
// the progress stream handle for the run it is showing: the app hands
// the handle over with AdoptStream and takes it back only through
// Detach. Events apply last-write-wins, in arrival order, with no
// buffering.
type SyncPanel struct {
	session    domain.SyncSession
	hasSession bool
	failed     bool

	rows     []domain.AccountProgress
	rowIndex map[int64]int // account ID -> index into rows

	stream     domain.ProgressStream
	subscribed bool
	attaching  bool
	detached   bool

	width        int
	height       int
	spinnerFrame int

	logger *slog.Logger
}

// NewSyncPanel creates a sync panel
func NewSyncPanel(logger *slog.Logger) *SyncPanel {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncPanel{
		rowIndex: make(map[int64]int),
		logger:   logger,
	}
}

// SetSession loads a session snapshot into the panel and builds the
// account row map from it. Loading a snapshot starts a fresh panel
// lifecycle, so an earlier Detach no longer blocks subscribing.
func (p *SyncPanel) SetSession(session domain.SyncSession) {
	p.session = session
	p.hasSession = true
	p.detached = false
	p.failed = session.Status == domain.SyncFailed
	p.setRows(session.Accounts)
}

// Session returns the panel's current session snapshot
func (p *SyncPanel) Session() domain.SyncSession {
	return p.session
}

// Failed reports whether the run the panel is showing has failed
func (p *SyncPanel) Failed() bool {
	return p.failed
}

// Rows returns the account rows in display order
func (p *SyncPanel) Rows() []domain.AccountProgress {
	return p.rows
}

// ShouldSubscribe reports whether the app should open a progress
// stream for the panel's session. Inactive or absent sessions never
// subscribe; a panel that is already subscribed (or mid-dial) never
// subscribes twice.
func (p *SyncPanel) ShouldSubscribe() bool {
	return p.hasSession &&
		p.session.Subscribable() &&
		!p.subscribed &&
		!p.attaching &&
		!p.detached
}

// MarkAttaching records that a dial is in flight so a second one is
// not started for the same session
func (p *SyncPanel) MarkAttaching() {
	p.attaching = true
}

// AttachFailed clears the in-flight dial state after a rejected
// subscribe. The caller logs the error; there is no retry.
func (p *SyncPanel) AttachFailed() {
	p.attaching = false
}

// AdoptStream hands a freshly opened stream to the panel. If the
// panel was detached while the dial was in flight, or already holds a
// stream, the new handle is closed and false is returned.
func (p *SyncPanel) AdoptStream(stream domain.ProgressStream) bool {
	p.attaching = false
	if p.detached || p.subscribed {
		if stream != nil {
			stream.Close()
		}
		return false
	}
	if stream == nil {
		return false
	}
	p.stream = stream
	p.subscribed = true
	return true
}

// Subscribed reports whether the panel currently holds a stream
func (p *SyncPanel) Subscribed() bool {
	return p.subscribed
}

// Stream returns the adopted stream, or nil
func (p *SyncPanel) Stream() domain.ProgressStream {
	return p.stream
}

// Detach releases the stream handle unconditionally, even while a
// read is blocked on it. Safe to call when nothing is attached.
func (p *SyncPanel) Detach() {
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			p.logger.Warn("Failed to close progress stream", "error", err)
		}
		p.stream = nil
	}
	p.subscribed = false
	p.attaching = false
	p.detached = true
}

// StreamEnded records that the stream closed from the remote side.
// The panel keeps showing its last snapshot.
func (p *SyncPanel) StreamEnded() {
	p.stream = nil
	p.subscribed = false
}

// ApplyEvent folds one stream event into the panel state and returns
// the notice the app should surface, if any. Events carrying an
// unrecognized type are treated as a full resync.
func (p *SyncPanel) ApplyEvent(ev domain.SyncEvent) *Notice {
	switch ev.Type {
	case domain.EventProgressUpdate:
		p.applyCounters(ev)
		return nil

	case domain.EventAccountUpdate:
		p.patchAccount(ev)
		return nil

	case domain.EventCompleted:
		p.applyCounters(ev)
		p.session.Status = domain.SyncCompleted
		p.failed = false
		return &Notice{Level: NoticeSuccess, Text: i18n.T(i18n.KeySyncCompleted)}

	case domain.EventFailed:
		p.session.Status = domain.SyncFailed
		p.failed = true
		text := i18n.T(i18n.KeySyncErrorGeneric)
		if ev.Error != "" {
			text = i18n.T(i18n.KeySyncFailed) + ": " + ev.Error
		}
		return &Notice{Level: NoticeError, Text: text}

	default:
		p.applyResync(ev)
		return nil
	}
}

// applyCounters overwrites the session-level counters with whatever
// the event carries. Missing numbers arrive as zero and win like any
// other value.
func (p *SyncPanel) applyCounters(ev domain.SyncEvent) {
	p.session.Percent = ev.Percent
	p.session.Processed = ev.Processed
	p.session.Detected = ev.Detected
}

// applyResync replaces the full session snapshot, including the
// account rows when the event carries them
func (p *SyncPanel) applyResync(ev domain.SyncEvent) {
	p.applyCounters(ev)
	if ev.Status != "" {
		p.session.Status = ev.Status
		p.failed = ev.Status == domain.SyncFailed
	}
	if len(ev.Accounts) > 0 {
		p.setRows(ev.Accounts)
	}
}

// patchAccount updates the row for the event's account. Events for
// accounts the panel has no row for are dropped.
func (p *SyncPanel) patchAccount(ev domain.SyncEvent) {
	idx, ok := p.rowIndex[ev.AccountID]
	if !ok {
		p.logger.Debug("Dropping update for unknown account", "account_id", ev.AccountID)
		return
	}

	row := &p.rows[idx]
	row.Processed = ev.Processed
	row.Total = ev.Total
	row.Detected = ev.Detected
	row.Percent = ev.Percent
	if ev.Status != "" {
		row.Status = ev.Status
	}
}

func (p *SyncPanel) setRows(accounts []domain.AccountProgress) {
	p.rows = make([]domain.AccountProgress, len(accounts))
	copy(p.rows, accounts)
	p.rowIndex = make(map[int64]int, len(accounts))
	for i, acc := range p.rows {
		p.rowIndex[acc.AccountID] = i
	}
}

// SetSize updates the component dimensions
func (p *SyncPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSpinnerFrame updates the spinner animation frame
func (p *SyncPanel) SetSpinnerFrame(frame int) {
	p.spinnerFrame = frame
}

// View renders the panel
func (p *SyncPanel) View() string {
	style := styles.InactiveBorder

	contentWidth := p.width - BorderWidth - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	var b strings.Builder
	b.WriteString(styles.AccentStyle.Render(styles.Truncate(i18n.T(i18n.KeySyncTitle), contentWidth)))
	b.WriteString("\n\n")

	if !p.hasSession || (!p.session.Subscribable() && p.session.Status == "") {
		b.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyNoSync)))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(i18n.T(i18n.KeyStartSyncHint)))
	} else {
		p.renderSession(&b, contentWidth)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(p.width - frameW).
		Height(p.height - frameH).
		Render(b.String())
}

func (p *SyncPanel) renderSession(b *strings.Builder, width int) {
	barWidth := width - 2
	if barWidth > 50 {
		barWidth = 50
	}
	b.WriteString(styles.RenderProgressBar(float64(p.session.Percent), barWidth, p.failed))
	b.WriteString("\n")

	percentLine := PercentLine(p.session.Percent)
	if p.failed {
		b.WriteString(styles.ErrorStyle.Render(percentLine))
	} else {
		b.WriteString(styles.SubtitleStyle.Render(percentLine))
	}
	if p.attaching {
		spinner := syncSpinnerFrames[p.spinnerFrame%len(syncSpinnerFrames)]
		b.WriteString("  " + styles.SpinnerStyle.Render(spinner))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s: ", i18n.T(i18n.KeyProcessedEmails))))
	b.WriteString(fmt.Sprintf("%d", p.session.Processed))
	b.WriteString("   ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s: ", i18n.T(i18n.KeyDetectedExpenses))))
	b.WriteString(fmt.Sprintf("%d", p.session.Detected))
	b.WriteString("\n")

	if len(p.rows) > 0 {
		b.WriteString("\n")
		for i, row := range p.rows {
			b.WriteString(p.renderAccountRow(row, width))
			if i < len(p.rows)-1 {
				b.WriteString("\n")
			}
		}
	}
}

func (p *SyncPanel) renderAccountRow(row domain.AccountProgress, width int) string {
	badge := StatusBadge(row.Status)
	counter := AccountCounter(row.Processed, row.Total)

	name := row.Name
	if name == "" {
		name = row.Email
	}
	nameWidth := width - lipgloss.Width(badge) - len(counter) - 4
	if nameWidth < 8 {
		nameWidth = 8
	}
	name = styles.Pad(styles.Truncate(name, nameWidth), nameWidth)

	return "  " + name + " " + styles.DimStyle.Render(counter) + " " + badge
}

// PercentLine renders the session progress line, e.g. "37% completado"
func PercentLine(percent int) string {
	return fmt.Sprintf("%d%% %s", percent, i18n.T(i18n.KeyProgressDone))
}

// AccountCounter renders the processed/total pair, e.g. "5 / 5"
func AccountCounter(processed, total int) string {
	return fmt.Sprintf("%d / %d", processed, total)
}

// StatusBadge renders the localized badge for a sync status. An empty
// status renders a placeholder so the row keeps its shape.
func StatusBadge(status domain.SyncStatus) string {
	switch status {
	case domain.SyncPending:
		return styles.BadgePendingStyle.Render(i18n.T(i18n.KeyStatusPending))
	case domain.SyncProcessing:
		return styles.BadgeProcessingStyle.Render(i18n.T(i18n.KeyStatusProcessing))
	case domain.SyncCompleted:
		return styles.BadgeCompletedStyle.Render(i18n.T(i18n.KeyStatusCompleted))
	case domain.SyncFailed:
		return styles.BadgeFailedStyle.Render(i18n.T(i18n.KeyStatusFailed))
	default:
		return styles.DimStyle.Render("·")
	}
}
