// Package tui provides the interactive Bubble Tea dashboard for rateio.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/export"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/tui/components"
	"github.com/theirongolddev/rateio/internal/tui/theme"
	"github.com/theirongolddev/rateio/internal/worksheet"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Where the current exchange rate came from.
const (
	SourceDefault  = "default"
	SourceFlag     = "flag"
	SourceScenario = "scenario"
	SourceLive     = "live"
	SourceCached   = "cached"
	SourceManual   = "manual"
)

// RateFetcher fetches the current USD/BRL quote.
type RateFetcher interface {
	FetchRate(ctx context.Context) (model.Quote, error)
}

// QuoteSaver remembers the last successful quote.
type QuoteSaver interface {
	SaveQuote(q model.Quote) error
}

// RateFetchedMsg is sent when a rate fetch finishes.
type RateFetchedMsg struct {
	Quote model.Quote
	Err   error
}

// ExportDoneMsg is sent when a report export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Options configures NewApp.
type Options struct {
	Worksheet    *worksheet.Worksheet
	Config       config.Config
	Fetcher      RateFetcher // nil when offline
	Cache        QuoteSaver  // optional
	Logger       *zap.Logger
	RateSource   string
	LastQuote    *model.Quote // quote behind the starting rate, if any
	NeedSetup    bool
	FetchOnStart bool
}

// App is the root Bubble Tea model.
type App struct {
	ws        *worksheet.Worksheet
	breakdown model.Breakdown
	cfg       config.Config

	fetcher RateFetcher
	cache   QuoteSaver
	log     *zap.Logger

	saveConfig func(config.Config) error
	exportFile func(export.Report, export.Format, string, string) (string, error)

	// Rate state
	rateSource   string
	lastQuote    *model.Quote
	fetching     bool
	fetchOnStart bool

	// Status line notice, cleared by the next key press
	notice    string
	noticeErr bool
	exporting bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	costs    costsState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	fetchTimeout = 30 * time.Second
)

const (
	tabOverview = iota
	tabCosts
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	ws := opts.Worksheet
	if ws == nil {
		ws = worksheet.New(opts.Config.General.DefaultRate, opts.Config.Allocation)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	src := opts.RateSource
	if src == "" {
		src = SourceDefault
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	// Init issues the start-up fetch, so it counts as in flight from here.
	fetchNow := opts.FetchOnStart && opts.Fetcher != nil

	return App{
		ws:           ws,
		breakdown:    ws.Breakdown(),
		cfg:          opts.Config,
		fetcher:      opts.Fetcher,
		cache:        opts.Cache,
		log:          log,
		saveConfig:   config.Save,
		exportFile:   export.WriteFile,
		rateSource:   src,
		lastQuote:    opts.LastQuote,
		fetchOnStart: fetchNow,
		fetching:     fetchNow,
		needSetup:    opts.NeedSetup,
		setupVals:    SetupValuesFrom(opts.Config),
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.needSetup {
		// Init runs on a copy, so the form is created on first WindowSizeMsg.
		cmds = append(cmds, func() tea.Msg { return startSetupMsg{} })
	}
	if a.fetchOnStart {
		cmds = append(cmds, fetchRateCmd(a.fetcher), a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

type startSetupMsg struct{}

func (a *App) recompute() {
	a.breakdown = a.ws.Breakdown()
	a.costs.clamp(len(a.breakdown.Entries))
}

func (a *App) setNotice(msg string, isErr bool) {
	a.notice = msg
	a.noticeErr = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case startSetupMsg:
		if !a.needSetup || a.setupForm != nil {
			return a, nil
		}
		a.setupForm = NewSetupForm(&a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()

	case tea.MouseMsg:
		if a.showHelp || a.setupForm != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabCosts && !a.costs.editing {
				a.costs.move(-1, len(a.breakdown.Entries))
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == tabCosts && !a.costs.editing {
				a.costs.move(1, len(a.breakdown.Entries))
			}
			return a, nil

		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				return a, nil
			}
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup form intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Inline editors intercept all keys
		if a.activeTab == tabCosts && a.costs.editing {
			return a.updateCostsInput(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		a.notice = ""

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabCosts:
			if m, cmd, ok := a.updateCostsKeys(key); ok {
				return m, cmd
			}
		case tabSettings:
			if m, cmd, ok := a.updateSettingsKeys(key); ok {
				return m, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			return a.startFetch()
		case "m":
			mode := a.ws.ToggleMode()
			a.recompute()
			a.persistAllocation()
			a.setNotice("allocation: "+strings.ToLower(mode.Label()), false)
			return a, nil
		case "e":
			return a.startExport()
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case RateFetchedMsg:
		a.fetching = false
		if msg.Err != nil {
			a.log.Warn("rate fetch failed", zap.Error(msg.Err), zap.Float64("rate", a.ws.Rate()))
			a.setNotice("rate fetch failed, rate unchanged", true)
			return a, nil
		}
		if err := a.ws.SetRate(msg.Quote.Rate); err != nil {
			a.log.Warn("rate fetch: rejected quote", zap.Error(err), zap.Float64("quoted", msg.Quote.Rate))
			a.setNotice("invalid quote, rate unchanged", true)
			return a, nil
		}
		q := msg.Quote
		a.lastQuote = &q
		a.rateSource = SourceLive
		a.recompute()
		a.log.Info("rate updated", zap.String("pair", q.Pair), zap.Float64("rate", q.Rate))
		if a.cache != nil {
			if err := a.cache.SaveQuote(q); err != nil {
				a.log.Warn("cache quote", zap.Error(err))
			}
		}
		a.setNotice("rate updated: "+cli.FormatRate(q.Rate), false)
		return a, nil

	case ExportDoneMsg:
		a.exporting = false
		if msg.Err != nil {
			a.log.Error("export failed", zap.Error(msg.Err))
			a.setNotice("export failed: "+msg.Err.Error(), true)
			return a, nil
		}
		a.log.Info("report exported", zap.String("path", msg.Path))
		a.setNotice("exported "+msg.Path, false)
		return a, nil

	case spinner.TickMsg:
		if a.fetching {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.finishSetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// startFetch kicks off a background rate fetch unless one is in flight.
func (a App) startFetch() (tea.Model, tea.Cmd) {
	if a.fetcher == nil {
		a.setNotice("offline: rate fetch disabled", true)
		return a, nil
	}
	if a.fetching {
		return a, nil
	}
	a.fetching = true
	return a, tea.Batch(fetchRateCmd(a.fetcher), a.spinner.Tick)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if a.exporting {
		return a, nil
	}
	format, err := export.ParseFormat(a.cfg.Export.Format)
	if err != nil {
		format = export.FormatXLS
	}
	a.exporting = true
	report := export.NewReport(a.breakdown)
	return a, exportCmd(a.exportFile, report, format, a.cfg.Export.Dir, a.cfg.Export.FileName)
}

// persistAllocation saves the worksheet's allocation settings, best-effort.
func (a *App) persistAllocation() {
	a.cfg.Allocation = a.ws.Settings()
	if err := a.saveConfig(a.cfg); err != nil {
		a.log.Warn("save allocation settings", zap.Error(err))
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  rateio needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c s", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Costs", []struct{ key, desc string }{
			{"a", "Add cost"},
			{"d", "Delete selected cost"},
			{"n", "Edit name"},
			{"Enter v", "Edit amount"},
			{"t", "Toggle currency R$ / US$"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Fetch USD/BRL rate"},
			{"m", "Toggle allocation mode"},
			{"e", "Export report (" + a.cfg.Export.Format + ")"},
			{"Esc", "Cancel edit"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status())

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabCosts:
		content = a.renderCostsTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) status() components.Status {
	st := components.Status{
		RateInfo: a.rateInfo(),
		Fetching: a.fetching,
		Notice:   a.notice,
		IsError:  a.noticeErr,
	}
	if a.fetching {
		st.RateInfo = a.spinner.View() + " " + st.RateInfo
	}
	return st
}

// rateInfo describes the current rate and where it came from.
func (a App) rateInfo() string {
	s := cli.FormatRate(a.ws.Rate()) + " · " + a.rateSource
	if a.lastQuote != nil && (a.rateSource == SourceLive || a.rateSource == SourceCached) {
		age := time.Since(a.lastQuote.FetchedAt)
		s += " " + cli.FormatDuration(int64(age.Seconds())) + " ago"
	}
	return s
}

// ─── Commands ───────────────────────────────────────────────────

func fetchRateCmd(f RateFetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		q, err := f.FetchRate(ctx)
		return RateFetchedMsg{Quote: q, Err: err}
	}
}

func exportCmd(write func(export.Report, export.Format, string, string) (string, error),
	r export.Report, f export.Format, dir, base string) tea.Cmd {
	return func() tea.Msg {
		path, err := write(r, f, dir, base)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color,
// so gaps between cards do not show the terminal's default background.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
