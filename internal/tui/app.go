package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hvillar/gastos/internal/adapter"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/service"
	"github.com/hvillar/gastos/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// View identifies one of the top-level tabs
type View int

const (
	ViewExpenses View = iota
	ViewSync
	ViewSummary
	ViewConflicts
	ViewRules
)

// Layout proportions
const (
	MonthsColumnPercent    = 24
	InspectorColumnPercent = 34
	SideColumnPercent      = 40
	MinColumnWidth         = 18

	// Vertical chrome: tab bar + footer line
	ChromeHeight = 2
)

// summaryMonths is how many months the charts view covers
const summaryMonths = 12

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	Config adapter.Config

	// Services
	ExpenseSvc  *service.ExpenseService
	SyncSvc     *service.SyncService
	SearchSvc   *service.SearchService
	RuleSvc     *service.RuleService
	ConflictSvc *service.ConflictService
	SummarySvc  *service.SummaryService
	Browser     *adapter.Browser

	// UI Components
	MonthsCol     *components.ListColumn
	ExpensesCol   *components.ListColumn
	RulesCol      *components.ListColumn
	ConflictsCol  *components.ListColumn
	Inspector     components.Inspector
	SyncPanel     *components.SyncPanel
	Omnibar       components.Omnibar
	CategoryModal components.CategoryModal
	ConflictModal components.ConflictModal
	Toasts        *components.Toasts

	// Data
	CurrentView    View
	monthSummaries []domain.MonthSummary
	dailyTotals    []domain.DayTotal
	currentMonth   string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	// Debounce sequence counters; stale ticks are dropped
	searchSeq   int
	categorySeq int

	// Expense to select once its month finishes loading
	pendingSelectID string

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(
	cfg adapter.Config,
	expenseSvc *service.ExpenseService,
	syncSvc *service.SyncService,
	searchSvc *service.SearchService,
	ruleSvc *service.RuleService,
	conflictSvc *service.ConflictService,
	summarySvc *service.SummaryService,
	browser *adapter.Browser,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	view := ViewExpenses
	if cfg.UI.DefaultView == "summary" {
		view = ViewSummary
	}

	expensesCol := components.NewExpensesColumn(i18n.T(i18n.KeyExpenses), nil)
	expensesCol.SetFocused(true)
	expensesCol.SetLoading(true)

	return Model{
		State:         StateBrowsing,
		Config:        cfg,
		ExpenseSvc:    expenseSvc,
		SyncSvc:       syncSvc,
		SearchSvc:     searchSvc,
		RuleSvc:       ruleSvc,
		ConflictSvc:   conflictSvc,
		SummarySvc:    summarySvc,
		Browser:       browser,
		MonthsCol:     components.NewMonthsColumn(nil),
		ExpensesCol:   expensesCol,
		RulesCol:      components.NewRulesColumn(nil),
		ConflictsCol:  components.NewConflictsColumn(nil),
		Inspector:     components.NewInspector(),
		SyncPanel:     components.NewSyncPanel(logger),
		Omnibar:       components.NewOmnibar(),
		CategoryModal: components.NewCategoryModal(),
		ConflictModal: components.NewConflictModal(),
		Toasts:        components.NewToasts(),
		CurrentView:   view,
		currentMonth:  domain.MonthKey(time.Now()),
		logger:        logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadAccountsCmd(m.ExpenseSvc),
		LoadExpensesCmd(m.ExpenseSvc, m.currentMonth),
		LoadMonthSummariesCmd(m.SummarySvc, summaryMonths),
		LoadSessionCmd(m.SyncSvc),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.ExpensesCol.SetSpinnerFrame(m.SpinnerFrame)
		m.RulesCol.SetSpinnerFrame(m.SpinnerFrame)
		m.ConflictsCol.SetSpinnerFrame(m.SpinnerFrame)
		m.SyncPanel.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100*time.Millisecond)

	case AccountsLoadedMsg:
		m.Inspector.SetAccounts(msg.Accounts)
		return m, nil

	case ExpensesLoadedMsg:
		// A slow load for a month the user already left still feeds
		// the search index
		m.SearchSvc.IndexMonth(msg.Month, msg.Expenses)
		if msg.Month != m.currentMonth {
			return m, nil
		}
		m.ExpensesCol.SetLoading(false)
		m.ExpensesCol.SetExpenses(msg.Expenses)
		if m.pendingSelectID != "" {
			for i, e := range msg.Expenses {
				if e.ID == m.pendingSelectID {
					m.ExpensesCol.SetSelectedIndex(i)
					break
				}
			}
			m.pendingSelectID = ""
		}
		m.updateInspector()
		return m, nil

	case MonthSummariesLoadedMsg:
		m.monthSummaries = msg.Summaries
		m.MonthsCol.SetMonths(msg.Summaries)
		m.selectCurrentMonthRow()
		return m, nil

	case DailyTotalsLoadedMsg:
		m.dailyTotals = msg.Days
		return m, nil

	case RulesLoadedMsg:
		m.RulesCol.SetLoading(false)
		m.RulesCol.SetRules(msg.Rules)
		m.updateInspector()
		return m, nil

	case RuleSavedMsg:
		cmds = append(cmds, m.Toasts.Push(components.ToastSuccess, i18n.T(i18n.KeyRuleSaved)))
		cmds = append(cmds, LoadRulesCmd(m.RuleSvc))
		return m, tea.Batch(cmds...)

	case RuleDeletedMsg:
		m.RulesCol.SetLoading(true)
		return m, LoadRulesCmd(m.RuleSvc)

	case ConflictsLoadedMsg:
		m.ConflictsCol.SetLoading(false)
		m.ConflictsCol.SetConflicts(msg.Conflicts)
		m.updateInspector()
		return m, nil

	case ConflictResolvedMsg:
		// Resolution changes the expense set server-side, so cached
		// months are stale
		m.ExpenseSvc.InvalidateAfterSync()
		m.SearchSvc.ClearIndex()
		m.ConflictsCol.SetLoading(true)
		cmds = append(cmds, m.Toasts.Push(components.ToastSuccess, i18n.T(i18n.KeyConflictResolved)))
		cmds = append(cmds, LoadConflictsCmd(m.ConflictSvc))
		cmds = append(cmds, LoadExpensesCmd(m.ExpenseSvc, m.currentMonth))
		return m, tea.Batch(cmds...)

	case CategorySavedMsg:
		m.ExpensesCol.UpdateExpense(msg.Expense)
		m.updateInspector()
		return m, m.Toasts.Push(components.ToastSuccess, i18n.T(i18n.KeyCategorySaved))

	case ExpenseStatusSavedMsg:
		m.ExpensesCol.UpdateExpense(msg.Expense)
		m.updateInspector()
		return m, m.Toasts.Push(components.ToastSuccess, i18n.T(i18n.KeyStatusSaved))

	case SyncSessionLoadedMsg:
		m.SyncPanel.SetSession(msg.Session)
		if cmd := m.maybeAttachCmd(false); cmd != nil {
			return m, cmd
		}
		return m, nil

	case SyncStartedMsg:
		m.SyncPanel.SetSession(msg.Session)
		if cmd := m.maybeAttachCmd(true); cmd != nil {
			return m, cmd
		}
		return m, nil

	case SyncAttachedMsg:
		// The panel may have been detached while the dial was in
		// flight; AdoptStream closes the handle in that case
		if !m.SyncPanel.AdoptStream(msg.Stream) {
			return m, nil
		}
		return m, ListenSyncCmd(msg.Stream)

	case SyncAttachFailedMsg:
		m.SyncPanel.AttachFailed()
		m.logger.Warn("progress stream rejected", "error", msg.Err)
		return m, nil

	case SyncEventMsg:
		return m.handleSyncEvent(msg)

	case SyncStreamClosedMsg:
		if m.SyncPanel.Stream() != msg.Stream {
			// A stream we already detached from; nothing to do
			return m, nil
		}
		m.SyncPanel.StreamEnded()
		if msg.Err != nil {
			m.logger.Warn("progress stream dropped", "error", msg.Err)
		} else {
			m.logger.Debug("progress stream closed")
		}
		return m, nil

	case components.ExpireToastMsg:
		m.Toasts.Expire(msg.ID)
		return m, nil

	case SearchDebounceMsg:
		if msg.Seq == m.searchSeq && m.Omnibar.IsVisible() {
			m.Omnibar.SetLoading(false)
			m.Omnibar.SetResults(m.SearchSvc.Filter(m.Omnibar.Query()))
		}
		return m, nil

	case CategoryDebounceMsg:
		if msg.Seq == m.categorySeq && m.CategoryModal.IsVisible() {
			m.CategoryModal.SetSuggestions(m.SearchSvc.SuggestCategories(m.CategoryModal.Query()))
		}
		return m, nil

	case ReceiptOpenedMsg:
		return m, nil

	case ErrMsg:
		text := msg.Error()
		switch {
		case errors.Is(msg.Err, domain.ErrServerOffline):
			text = i18n.T(i18n.KeyServerOffline)
		case errors.Is(msg.Err, domain.ErrAuthFailed):
			text = i18n.T(i18n.KeyAuthFailed)
		}
		m.StatusMsg = text
		m.StatusIsErr = true
		m.ExpensesCol.SetLoading(false)
		m.RulesCol.SetLoading(false)
		m.ConflictsCol.SetLoading(false)
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Remaining messages (cursor blink and the like) go to whatever
	// holds a text input right now
	if m.Omnibar.IsVisible() {
		var cmd tea.Cmd
		m.Omnibar, cmd, _ = m.Omnibar.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if col := m.focusedColumn(); col != nil {
		_, cmd := col.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleSyncEvent applies one stream event and re-arms the read loop
func (m Model) handleSyncEvent(msg SyncEventMsg) (tea.Model, tea.Cmd) {
	if m.SyncPanel.Stream() != msg.Stream {
		// Event raced a detach; drop it and stop pumping this stream
		return m, nil
	}

	var cmds []tea.Cmd
	cmds = append(cmds, ListenSyncCmd(msg.Stream))

	if notice := m.SyncPanel.ApplyEvent(msg.Event); notice != nil {
		level := components.ToastSuccess
		if notice.Level == components.NoticeError {
			level = components.ToastError
		}
		cmds = append(cmds, m.Toasts.Push(level, notice.Text))
	}

	if msg.Event.Type == domain.EventCompleted {
		// New expenses exist server-side; drop every cache so the
		// next reads see them
		m.ExpenseSvc.InvalidateAfterSync()
		m.SummarySvc.Invalidate()
		m.SearchSvc.ClearIndex()
		m.ExpensesCol.SetLoading(true)
		cmds = append(cmds,
			LoadExpensesCmd(m.ExpenseSvc, m.currentMonth),
			LoadMonthSummariesCmd(m.SummarySvc, summaryMonths),
			LoadDailyTotalsCmd(m.SummarySvc, m.Config.UI.HeatmapWeeks),
		)
	}

	return m, tea.Batch(cmds...)
}

// maybeAttachCmd opens the progress stream when the loaded session
// supports one. Outside the sync view this only happens for explicit
// starts or when auto attach is configured.
func (m *Model) maybeAttachCmd(explicit bool) tea.Cmd {
	if !m.SyncPanel.ShouldSubscribe() {
		return nil
	}
	if !explicit && m.CurrentView != ViewSync && !m.Config.Sync.AutoAttach {
		return nil
	}
	m.SyncPanel.MarkAttaching()
	return AttachSyncCmd(m.SyncSvc, m.SyncPanel.Session())
}

// switchView changes the active tab. Leaving the sync view releases
// the live progress handle; entering it loads a fresh session, which
// re-subscribes when a run is active.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == m.CurrentView {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.CurrentView == ViewSync {
		m.SyncPanel.Detach()
	}
	m.CurrentView = v
	m.updateLayout()

	switch v {
	case ViewExpenses:
		if m.ExpensesCol.IsEmpty() && !m.ExpensesCol.IsLoading() {
			m.ExpensesCol.SetLoading(true)
			cmds = append(cmds, LoadExpensesCmd(m.ExpenseSvc, m.currentMonth))
		}
	case ViewSync:
		cmds = append(cmds, LoadSessionCmd(m.SyncSvc))
	case ViewSummary:
		cmds = append(cmds,
			LoadMonthSummariesCmd(m.SummarySvc, summaryMonths),
			LoadDailyTotalsCmd(m.SummarySvc, m.Config.UI.HeatmapWeeks),
		)
	case ViewConflicts:
		m.ConflictsCol.SetLoading(true)
		cmds = append(cmds, LoadConflictsCmd(m.ConflictSvc))
	case ViewRules:
		m.RulesCol.SetLoading(true)
		cmds = append(cmds, LoadRulesCmd(m.RuleSvc))
	}

	m.updateInspector()
	return m, tea.Batch(cmds...)
}

// refreshCurrentView wipes cached data and reloads what the active
// view shows
func (m Model) refreshCurrentView() (tea.Model, tea.Cmd) {
	m.ExpenseSvc.InvalidateAfterSync()
	m.SummarySvc.Invalidate()
	m.SearchSvc.ClearIndex()

	var cmds []tea.Cmd
	switch m.CurrentView {
	case ViewExpenses:
		m.ExpensesCol.SetLoading(true)
		cmds = append(cmds,
			LoadExpensesCmd(m.ExpenseSvc, m.currentMonth),
			LoadMonthSummariesCmd(m.SummarySvc, summaryMonths),
			LoadAccountsCmd(m.ExpenseSvc),
		)
	case ViewSync:
		cmds = append(cmds, LoadSessionCmd(m.SyncSvc))
	case ViewSummary:
		cmds = append(cmds,
			LoadMonthSummariesCmd(m.SummarySvc, summaryMonths),
			LoadDailyTotalsCmd(m.SummarySvc, m.Config.UI.HeatmapWeeks),
		)
	case ViewConflicts:
		m.ConflictsCol.SetLoading(true)
		cmds = append(cmds, LoadConflictsCmd(m.ConflictSvc))
	case ViewRules:
		m.RulesCol.SetLoading(true)
		cmds = append(cmds, LoadRulesCmd(m.RuleSvc))
	}
	return m, tea.Batch(cmds...)
}

// shiftMonth moves the browsed month backward or forward
func (m Model) shiftMonth(delta int) (tea.Model, tea.Cmd) {
	t, err := time.Parse("2006-01", m.currentMonth)
	if err != nil {
		return m, nil
	}
	month := t.AddDate(0, delta, 0).Format("2006-01")

	// Months past the newest one the server knows hold nothing
	if month > domain.MonthKey(time.Now()) {
		return m, nil
	}

	return m, m.loadMonth(month, "")
}

// jumpToExpense navigates to a search hit, switching month when needed
func (m *Model) jumpToExpense(hit service.ExpenseHit) tea.Cmd {
	if m.CurrentView != ViewExpenses {
		m.CurrentView = ViewExpenses
		m.updateLayout()
	}

	if hit.Month == m.currentMonth {
		m.selectExpenseRow(hit.Expense.ID)
		return nil
	}
	return m.loadMonth(hit.Month, hit.Expense.ID)
}

// loadMonth switches the expenses column to another month. selectID,
// when set, names the row to land on once the month arrives.
func (m *Model) loadMonth(month, selectID string) tea.Cmd {
	m.currentMonth = month
	m.pendingSelectID = selectID
	m.ExpensesCol.SetTitle(i18n.MonthLabel(month))
	m.ExpensesCol.SetExpenses(nil)
	m.ExpensesCol.SetLoading(true)
	m.selectCurrentMonthRow()
	m.updateInspector()
	return LoadExpensesCmd(m.ExpenseSvc, month)
}

// selectExpenseRow moves the expenses cursor to the given expense
func (m *Model) selectExpenseRow(id string) {
	for i := 0; i < m.ExpensesCol.ItemCount(); i++ {
		m.ExpensesCol.SetSelectedIndex(i)
		if exp := m.ExpensesCol.SelectedExpense(); exp != nil && exp.ID == id {
			break
		}
	}
	m.updateInspector()
}

// selectCurrentMonthRow aligns the months column with the browsed month
func (m *Model) selectCurrentMonthRow() {
	for i, s := range m.monthSummaries {
		if s.Month == m.currentMonth {
			m.MonthsCol.SetSelectedIndex(i)
			return
		}
	}
}

// focusedColumn returns the list column the active view navigates
func (m *Model) focusedColumn() *components.ListColumn {
	switch m.CurrentView {
	case ViewExpenses:
		return m.ExpensesCol
	case ViewRules:
		return m.RulesCol
	case ViewConflicts:
		return m.ConflictsCol
	default:
		return nil
	}
}

// updateInspector mirrors the focused column's selection
func (m *Model) updateInspector() {
	switch m.CurrentView {
	case ViewExpenses:
		m.Inspector.SetItem(m.ExpensesCol.SelectedExpense())
	case ViewRules:
		m.Inspector.SetItem(m.RulesCol.SelectedRule())
	case ViewConflicts:
		m.Inspector.SetItem(m.ConflictsCol.SelectedConflict())
	default:
		m.Inspector.SetItem(nil)
	}
}
