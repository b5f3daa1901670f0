package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/export"
	"github.com/theirongolddev/rateio/internal/quote"
	"github.com/theirongolddev/rateio/internal/tui/components"
	"github.com/theirongolddev/rateio/internal/tui/theme"
	"github.com/theirongolddev/rateio/internal/worksheet"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	settingsFieldRate = iota
	settingsFieldMode
	settingsFieldUsers
	settingsFieldPercentage
	settingsFieldTheme
	settingsFieldExportFormat
	settingsFieldAutoFetch
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 20
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		m, cmd := a.settingsActivate()
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

// settingsActivate opens the editor for text fields and cycles choice fields.
func (a App) settingsActivate() (tea.Model, tea.Cmd) {
	a.settings.saved = false

	switch a.settings.cursor {
	case settingsFieldMode:
		a.ws.ToggleMode()
		a.recompute()
		a.cfg.Allocation = a.ws.Settings()
		a.settingsPersist()
		return a, nil
	case settingsFieldTheme:
		names := theme.Names()
		next := names[0]
		for i, n := range names {
			if n == theme.Active.Name {
				next = names[(i+1)%len(names)]
				break
			}
		}
		theme.SetActive(next)
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
		a.cfg.Appearance.Theme = next
		a.settingsPersist()
		return a, nil
	case settingsFieldExportFormat:
		cur, err := export.ParseFormat(a.cfg.Export.Format)
		next := export.Formats[0]
		if err == nil {
			for i, f := range export.Formats {
				if f == cur {
					next = export.Formats[(i+1)%len(export.Formats)]
					break
				}
			}
		}
		a.cfg.Export.Format = string(next)
		a.settingsPersist()
		return a, nil
	case settingsFieldAutoFetch:
		a.cfg.Quote.AutoFetch = !a.cfg.Quote.AutoFetch
		a.settingsPersist()
		return a, nil
	}

	ti := newSettingsInput()
	st := a.ws.Settings()
	switch a.settings.cursor {
	case settingsFieldRate:
		ti.Placeholder = "5,50"
		ti.SetValue(cli.FormatDecimal(a.ws.Rate(), 2))
	case settingsFieldUsers:
		ti.Placeholder = "50"
		ti.SetValue(strconv.Itoa(st.TargetUsers))
	case settingsFieldPercentage:
		ti.Placeholder = "8"
		ti.SetValue(cli.FormatDecimal(st.TargetPercentage, 2))
	}
	ti.Focus()
	ti.CursorEnd()

	a.settings.editing = true
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited text field to the worksheet and config.
func (a *App) settingsSave() {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldRate:
		r := worksheet.ParseNumber(val)
		if err := a.apply(worksheet.SetRate{Rate: r}); err != nil {
			a.settings.saved = false
			a.setNotice("invalid rate, unchanged", true)
			return
		}
		a.rateSource = SourceManual
		a.cfg.General.DefaultRate = r
	case settingsFieldUsers:
		_ = a.apply(worksheet.SetTargetUsers{Users: worksheet.ParseCount(val)})
		a.cfg.Allocation = a.ws.Settings()
	case settingsFieldPercentage:
		_ = a.apply(worksheet.SetTargetPercentage{Percentage: worksheet.ParseNumber(val)})
		a.cfg.Allocation = a.ws.Settings()
	}

	a.settingsPersist()
}

func (a *App) settingsPersist() {
	a.settings.saveErr = a.saveConfig(a.cfg)
	a.settings.saved = a.settings.saveErr == nil
	if a.settings.saveErr != nil {
		a.log.Warn("settings: save config", zap.Error(a.settings.saveErr))
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	st := a.ws.Settings()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	type field struct {
		label string
		value string
		hint  string
	}

	fields := []field{
		{"Exchange Rate", cli.FormatRate(a.ws.Rate()), a.rateSource},
		{"Allocation Mode", st.Mode.Label(), "enter to switch"},
		{"Target Users", cli.FormatNumber(int64(st.TargetUsers)), ""},
		{"Percentage/User", cli.FormatDecimal(st.TargetPercentage, 2) + "%", ""},
		{"Theme", theme.Active.Name, "enter to cycle"},
		{"Export Format", a.cfg.Export.Format, "enter to cycle"},
		{"Fetch On Start", strconv.FormatBool(a.cfg.Quote.AutoFetch), "enter to toggle"},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			if f.hint != "" {
				hint := selectedStyle.Render("  " + f.hint)
				formBody.WriteString(hint)
				value += hint
			}
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	quoteInfo := "none this session"
	if a.lastQuote != nil {
		quoteInfo = fmt.Sprintf("%s bid %s ask %s at %s",
			a.lastQuote.Pair,
			cli.FormatDecimal(a.lastQuote.Bid, 4),
			cli.FormatDecimal(a.lastQuote.Ask, 4),
			a.lastQuote.QuotedAt.Local().Format("02/01/2006 15:04"))
	}
	source := "live"
	if a.fetcher == nil {
		source = "offline"
	}
	quoteURL := config.GetQuoteURL(a.cfg)
	if quoteURL == "" {
		quoteURL = quote.DefaultBaseURL
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Quote cache:  ") + valueStyle.Render(config.CachePath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Log file:     ") + valueStyle.Render(config.LogPath(a.cfg)) + "\n")
	infoBody.WriteString(labelStyle.Render("Quote API:    ") + valueStyle.Render(quoteURL) + dimStyle.Render(" ("+source+")") + "\n")
	infoBody.WriteString(labelStyle.Render("Last quote:   ") + valueStyle.Render(quoteInfo))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
