package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	calcApp "github.com/spreadpad/spreadpad/business/calc/app"
	calcDomain "github.com/spreadpad/spreadpad/business/calc/domain"
	ratesDomain "github.com/spreadpad/spreadpad/business/rates/domain"
	sessionApp "github.com/spreadpad/spreadpad/business/session/app"
	settingsApp "github.com/spreadpad/spreadpad/business/settings/app"
	settingsDomain "github.com/spreadpad/spreadpad/business/settings/domain"
	"github.com/spreadpad/spreadpad/internal/apperror"
	"github.com/spreadpad/spreadpad/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseLogin     Phase = "login"     // Credentials screen
	PhaseLoading   Phase = "loading"   // Startup snapshot merge
	PhaseDashboard Phase = "dashboard" // Main calculator view
)

// noticeDuration is how long a transient status-bar notice stays visible.
const noticeDuration = 6 * time.Second

var hundred = decimal.NewFromInt(100)

// Deps are the services the TUI drives. The model owns the tab state; the
// services own persistence and the session.
type Deps struct {
	Session  *sessionApp.Service
	Sync     *settingsApp.Synchronizer
	Recorder *calcApp.Recorder
	RatePair string
	Version  string
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	deps Deps
	keys KeyMap

	phase    Phase
	width    int
	height   int
	quitting bool

	// Login state
	username   textinput.Model
	password   textinput.Model
	loginFocus int
	loginErr   string
	loggingIn  bool

	// Dashboard state
	snap   settingsDomain.Snapshot
	tabs   *calcApp.Tabs
	binds  []fieldBinding
	inputs []textinput.Model
	focus  int

	renaming bool
	rename   textinput.Model

	tutorialOpen bool
	tutorialStep int

	// Components
	tabBar       *components.TabBar
	arbForm      *components.ArbForm
	fundForm     *components.FundForm
	historyPanel *components.HistoryPanel
	statusBar    *components.StatusBar

	// Ambient state
	quote       ratesDomain.Quote
	rateErr     error
	updateTo    string
	notice      string
	noticeUntil time.Time
	loadStart   time.Time
}

// New creates the TUI model. A resumed session skips the login screen and
// goes straight to the snapshot merge.
func New(deps Deps) Model {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 24
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 24
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	phase := PhaseLogin
	if deps.Session.Current() != nil {
		phase = PhaseLoading
	}

	return Model{
		deps:         deps,
		keys:         DefaultKeyMap(),
		phase:        phase,
		username:     username,
		password:     password,
		snap:         settingsDomain.Default(),
		tabBar:       components.NewTabBar(),
		arbForm:      components.NewArbForm(),
		fundForm:     components.NewFundForm(),
		historyPanel: components.NewHistoryPanel(10),
		statusBar:    components.NewStatusBar(),
		loadStart:    time.Now(),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), textinput.Blink}
	if m.phase == PhaseLoading {
		cmds = append(cmds, m.mergeCmd())
	}
	return tea.Batch(cmds...)
}

// tickCmd returns a command that sends a tick every 250ms for animations
// and status refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// mergeCmd runs the one-time local/remote snapshot reconciliation.
func (m Model) mergeCmd() tea.Cmd {
	sync := m.deps.Sync
	return func() tea.Msg {
		return MergedMsg{Snapshot: sync.LoadMerge(context.Background())}
	}
}

func loginCmd(svc *sessionApp.Service, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sess, err := svc.Login(ctx, username, password)
		return LoginResultMsg{Session: sess, Err: err}
	}
}

// persistCmd mirrors the tab state into the snapshot and hands it to the
// synchronizer: local write now, remote write debounced when the
// structural fingerprint moved.
func (m *Model) persistCmd() tea.Cmd {
	col := m.tabs.Collection()
	m.snap.SetCollection(*col)
	snap := m.snap
	sync := m.deps.Sync
	return func() tea.Msg {
		sync.Apply(context.Background(), snap)
		return nil
	}
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeUntil = time.Now().Add(noticeDuration)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.phase {
		case PhaseLogin:
			return m.updateLogin(msg)
		case PhaseLoading:
			return m, nil
		default:
			return m.updateDashboard(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if m.notice != "" && time.Now().After(m.noticeUntil) {
			m.notice = ""
		}
		return m, tickCmd()

	case RateMsg:
		m.quote = msg.Quote
		m.rateErr = msg.Err

	case LoginResultMsg:
		m.loggingIn = false
		if msg.Err != nil {
			m.loginErr = errorText(msg.Err)
			return m, nil
		}
		m.loginErr = ""
		m.deps.Sync.SetToken(msg.Session.Token)
		m.phase = PhaseLoading
		m.loadStart = time.Now()
		return m, m.mergeCmd()

	case MergedMsg:
		m.snap = msg.Snapshot
		col := m.snap.Collection()
		m.tabs = calcApp.NewTabs(&col)
		m.focus = 0
		m.rebuildInputs()
		m.phase = PhaseDashboard

	case SessionEndedMsg:
		m.deps.Sync.SetToken("")
		m.setNotice("signed out: " + msg.Reason)

	case UpdateAvailableMsg:
		m.updateTo = msg.Version

	case ErrorMsg:
		m.setNotice(errorText(msg.Err))
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.loggingIn {
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, loginCmd(m.deps.Session, m.username.Value(), m.password.Value())
	case "esc":
		// Offline mode: local persistence only, no remote sync.
		m.phase = PhaseLoading
		m.loadStart = time.Now()
		return m, m.mergeCmd()
	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.username.Blur()
			m.password.Focus()
		} else {
			m.loginFocus = 0
			m.password.Blur()
			m.username.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tutorialOpen {
		switch msg.String() {
		case "enter", "right":
			m.tutorialStep++
			if m.tutorialStep >= len(tutorialSteps) {
				m.tutorialOpen = false
				m.tutorialStep = 0
			}
		case "left":
			if m.tutorialStep > 0 {
				m.tutorialStep--
			}
		case "esc", "f1":
			m.tutorialOpen = false
			m.tutorialStep = 0
		}
		return m, nil
	}

	if m.renaming {
		switch msg.String() {
		case "enter":
			if inst := m.tabs.Active(); inst != nil {
				m.tabs.Rename(inst.ID, m.rename.Value())
			}
			m.renaming = false
			return m, m.persistCmd()
		case "esc":
			m.renaming = false
			return m, nil
		}
		var cmd tea.Cmd
		m.rename, cmd = m.rename.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Tutorial):
		m.tutorialOpen = true
		m.tutorialStep = 0
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.NewArbitrage):
		id := m.tabs.AddArbitrage()
		m.tabs.Activate(id)
		m.focus = 0
		m.rebuildInputs()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.NewFunding):
		id := m.tabs.AddFunding()
		m.tabs.Activate(id)
		m.focus = 0
		m.rebuildInputs()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.CloseTab):
		if inst := m.tabs.Active(); inst != nil {
			m.tabs.Remove(inst.ID)
		}
		m.focus = 0
		m.rebuildInputs()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.RenameTab):
		inst := m.tabs.Active()
		if inst == nil {
			return m, nil
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 40
		ti.Width = 24
		ti.SetValue(inst.Name)
		ti.Focus()
		m.rename = ti
		m.renaming = true
		return m, nil

	case key.Matches(msg, m.keys.ClearFields):
		m.tabs.ClearActive()
		m.rebuildInputs()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.ToggleAverage):
		if inst := m.tabs.Active(); inst != nil && inst.Arb != nil {
			show := !inst.Arb.ShowAverage
			m.tabs.UpdateActive(calcApp.Patch{Arb: &calcApp.ArbPatch{ShowAverage: &show}})
			m.rebuildInputs()
			return m, m.persistCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.AddPurchase):
		m.tabs.AddPurchase()
		m.rebuildInputs()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.DropPurchase):
		if inst := m.tabs.Active(); inst != nil && inst.Arb != nil && len(inst.Arb.Purchases) > 0 {
			m.tabs.RemovePurchase(inst.Arb.Purchases[len(inst.Arb.Purchases)-1].ID)
			m.rebuildInputs()
			return m, m.persistCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Record):
		m.recordActive()
		return m, nil

	case key.Matches(msg, m.keys.LogPeriod):
		m.logPeriod()
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.ClearHistory):
		m.deps.Recorder.Clear(context.Background())
		return m, nil

	case key.Matches(msg, m.keys.ToggleDark):
		m.snap.DarkMode = !m.snap.DarkMode
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.ToggleCompact):
		m.snap.CompactMode = !m.snap.CompactMode
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.TogglePin):
		m.snap.Pinned = !m.snap.Pinned
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.CycleTheme):
		m.snap.Theme = nextTheme(m.snap.Theme)
		return m, m.persistCmd()

	case key.Matches(msg, m.keys.Logout):
		m.deps.Session.Logout(context.Background())
		m.deps.Sync.SetToken("")
		m.setNotice("signed out")
		return m, nil
	}

	// Everything else edits the focused field.
	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.binds[m.focus].set(m.tabs, m.inputs[m.focus].Value())
		return m, tea.Batch(cmd, m.persistCmd())
	}
	return m, nil
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	col := m.tabs.Collection()
	if len(col.Instances) == 0 {
		return m, nil
	}
	idx := col.IndexOf(col.ActiveID)
	idx = (idx + delta + len(col.Instances)) % len(col.Instances)
	m.tabs.Activate(col.Instances[idx].ID)
	m.focus = 0
	m.rebuildInputs()
	return m, m.persistCmd()
}

// recordActive appends the current result to history. Ineligible results
// (blank or zero inputs) are dropped by the recorder.
func (m *Model) recordActive() {
	inst := m.tabs.Active()
	if inst == nil {
		return
	}
	ctx := context.Background()

	if inst.Kind == calcDomain.KindFunding && inst.Fund != nil {
		f := inst.Fund
		proj := calcDomain.FundingProjection(f.PositionSize, f.Leverage, f.IntervalHours, f.ShortRate, f.LongRate)
		inputs := map[string]string{
			"positionSize":  f.PositionSize,
			"intervalHours": f.IntervalHours,
			"shortRate":     f.ShortRate,
			"longRate":      f.LongRate,
		}
		m.deps.Recorder.Record(ctx, calcDomain.KindFunding, inputs, proj.PeriodProfit.StringFixed(2), inst.Name)
		return
	}

	if inst.Arb == nil {
		return
	}
	a := inst.Arb
	m.deps.Recorder.Record(ctx, calcDomain.KindArbitrage,
		map[string]string{"openA": a.OpenA, "openB": a.OpenB},
		calcDomain.PercentageDiff(a.OpenA, a.OpenB), inst.Name)
	m.deps.Recorder.Record(ctx, calcDomain.KindArbitrage,
		map[string]string{"closeA": a.CloseA, "closeB": a.CloseB},
		calcDomain.PercentageDiff(a.CloseA, a.CloseB), inst.Name)
}

// logPeriod appends one realized funding period to the active tab's log.
func (m *Model) logPeriod() {
	inst := m.tabs.Active()
	if inst == nil || inst.Kind != calcDomain.KindFunding || inst.Fund == nil {
		return
	}
	f := inst.Fund
	proj := calcDomain.FundingProjection(f.PositionSize, f.Leverage, f.IntervalHours, f.ShortRate, f.LongRate)
	if proj.IsZero() {
		return
	}
	f.AppendLog(calcDomain.FundLogEntry{
		At:     time.Now(),
		Profit: proj.PeriodProfit,
		Rate:   proj.NetRate,
	})
}

// errorText extracts a display message: the server-provided context when
// present, otherwise the stable error message.
func errorText(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Context != "" {
			return appErr.Context
		}
		return appErr.Message
	}
	return err.Error()
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseLogin:
		return m.renderLogin()
	case PhaseLoading:
		return m.renderLoading()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderLogin() string {
	p := palette(m.snap.Theme, m.snap.DarkMode)
	mutedSty := lipgloss.NewStyle().Foreground(p.Muted)
	dangerSty := lipgloss.NewStyle().Foreground(p.Negative)
	labelSty := lipgloss.NewStyle().Foreground(p.Muted).Width(10)

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString("  ")
	sb.WriteString(titleStyle(p).Render(" SPREADPAD "))
	sb.WriteString("\n\n")

	var form strings.Builder
	form.WriteString(labelSty.Render("Username"))
	form.WriteString(" ")
	form.WriteString(m.username.View())
	form.WriteString("\n")
	form.WriteString(labelSty.Render("Password"))
	form.WriteString(" ")
	form.WriteString(m.password.View())
	sb.WriteString("  ")
	sb.WriteString(boxStyle(p).Render(form.String()))
	sb.WriteString("\n\n")

	if m.loggingIn {
		sb.WriteString(mutedSty.Render("  Signing in..."))
		sb.WriteString("\n")
	} else if m.loginErr != "" {
		sb.WriteString(dangerSty.Render("  " + m.loginErr))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(mutedSty.Render("  enter: sign in  •  esc: work offline  •  ctrl+c: quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderLoading() string {
	p := palette(m.snap.Theme, m.snap.DarkMode)
	mutedSty := lipgloss.NewStyle().Foreground(p.Muted)
	accentSty := lipgloss.NewStyle().Foreground(p.Accent)

	dotCount := int(time.Since(m.loadStart).Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString("  ")
	sb.WriteString(titleStyle(p).Render(" SPREADPAD "))
	sb.WriteString("\n\n")
	sb.WriteString(accentSty.Render("  Loading your calculators" + dots))
	sb.WriteString("\n\n")
	sb.WriteString(mutedSty.Render("  Merging local and synced settings"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderDashboard() string {
	p := palette(m.snap.Theme, m.snap.DarkMode)
	mutedSty := lipgloss.NewStyle().Foreground(p.Muted)

	var sb strings.Builder

	// Header
	header := " SPREADPAD "
	sb.WriteString(titleStyle(p).Render(header))
	if m.snap.Pinned {
		sb.WriteString(mutedSty.Render("  pinned"))
	}
	sb.WriteString("\n")
	if !m.snap.CompactMode {
		sb.WriteString("\n")
	}

	// Tab bar
	col := m.tabs.Collection()
	items := make([]components.TabItem, 0, len(col.Instances))
	for _, inst := range col.Instances {
		items = append(items, components.TabItem{
			Name:    inst.Name,
			Funding: inst.Kind == calcDomain.KindFunding,
			Active:  inst.ID == col.ActiveID,
		})
	}
	sb.WriteString(m.tabBar.View(p, items))
	sb.WriteString("\n")
	if m.renaming {
		sb.WriteString(mutedSty.Render("rename: "))
		sb.WriteString(m.rename.View())
		sb.WriteString("\n")
	}
	if !m.snap.CompactMode {
		sb.WriteString("\n")
	}

	if m.tutorialOpen {
		sb.WriteString(m.renderTutorial(p))
		sb.WriteString("\n")
		return sb.String()
	}

	// Active form and history panels
	form := m.renderForm(p)
	if m.snap.CompactMode || m.width <= 100 {
		sb.WriteString(boxStyle(p).Render(form))
		sb.WriteString("\n")
		if !m.snap.CompactMode {
			sb.WriteString(boxStyle(p).Render(m.renderHistory(p)))
			sb.WriteString("\n")
		}
	} else {
		left := boxStyle(p).Width(m.width/2 - 2).Render(form)
		right := boxStyle(p).Width(m.width/2 - 2).Render(m.renderHistory(p))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
		sb.WriteString("\n")
	}

	// Status bar
	sb.WriteString(m.renderStatusBar(p))
	sb.WriteString("\n")

	if !m.snap.CompactMode {
		sb.WriteString(helpStyle(p).Render(m.shortHelp()))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderForm(p components.Palette) string {
	inst := m.tabs.Active()
	if inst == nil {
		return ""
	}

	fields := make([]components.Field, len(m.binds))
	for i, b := range m.binds {
		fields[i] = components.Field{
			Label:   b.label,
			View:    m.inputs[i].View(),
			Focused: i == m.focus,
		}
	}

	if inst.Kind == calcDomain.KindFunding && inst.Fund != nil {
		f := inst.Fund
		proj := calcDomain.FundingProjection(f.PositionSize, f.Leverage, f.IntervalHours, f.ShortRate, f.LongRate)
		display := components.FundProjection{
			NetRate:      proj.NetRate.Mul(hundred).StringFixed(2) + "%",
			PeriodProfit: "$" + proj.PeriodProfit.StringFixed(2),
			Daily:        "$" + proj.DailyProfit.StringFixed(2),
			Monthly:      "$" + proj.MonthlyProfit.StringFixed(2),
			Annual:       "$" + proj.AnnualProfit.StringFixed(2),
			Margin:       "$" + proj.Margin.StringFixed(2),
			APY:          proj.APY.StringFixed(2) + "%",
		}

		var logLines []string
		for i := len(f.Log) - 1; i >= 0 && len(logLines) < 5; i-- {
			e := f.Log[i]
			logLines = append(logLines, fmt.Sprintf("%s  $%s (net %s%%)",
				e.At.Format("15:04:05"), e.Profit.StringFixed(2), e.Rate.Mul(hundred).StringFixed(2)))
		}
		return m.fundForm.View(p, fields, display, logLines)
	}

	if inst.Arb == nil {
		return ""
	}
	a := inst.Arb
	res := components.ArbResult{
		OpenSpread:  calcDomain.PercentageDiff(a.OpenA, a.OpenB) + "%",
		CloseSpread: calcDomain.PercentageDiff(a.CloseA, a.CloseB) + "%",
	}

	base := fields
	var avgFields []components.Field
	if a.ShowAverage && len(fields) > 4 {
		base = fields[:4]
		avgFields = fields[4:]
	}
	average := calcDomain.AveragePrice(a.TotalCoins, a.Purchases)
	return m.arbForm.View(p, base, res, a.ShowAverage, avgFields, average)
}

func (m Model) renderHistory(p components.Palette) string {
	entries := m.deps.Recorder.Entries()
	rows := make([]components.HistoryRow, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		result := e.Result + "%"
		funding := e.Kind == calcDomain.KindFunding
		if funding {
			result = "$" + e.Result
		}
		rows = append(rows, components.HistoryRow{
			When:    e.At.Format("15:04"),
			Tab:     e.TabName,
			Result:  result,
			Funding: funding,
		})
	}
	return m.historyPanel.View(p, rows)
}

func (m Model) renderStatusBar(p components.Palette) string {
	pair := m.quote.Pair
	if pair == "" {
		pair = m.deps.RatePair
	}
	rate := ""
	if !m.quote.IsZero() {
		rate = m.quote.Bid.StringFixed(2)
	}

	user := ""
	if sess := m.deps.Session.Current(); sess != nil {
		user = sess.User.Username
		if user == "" {
			user = "signed in"
		}
	}

	return m.statusBar.View(p, components.Status{
		RatePair:  pair,
		Rate:      rate,
		RateStale: m.rateErr != nil,
		Pending:   m.deps.Sync.PendingRemote(),
		User:      user,
		UpdateTo:  m.updateTo,
		Notice:    m.notice,
	})
}

func (m Model) shortHelp() string {
	parts := make([]string, 0, 8)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  •  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	Program = tea.NewProgram(New(deps), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
