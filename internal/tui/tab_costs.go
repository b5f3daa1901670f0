package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/tui/components"
	"github.com/theirongolddev/rateio/internal/tui/theme"
	"github.com/theirongolddev/rateio/internal/worksheet"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// costsState tracks the costs tab selection and inline editor.
type costsState struct {
	cursor  int
	editing bool
	field   worksheet.Field
	input   textinput.Model
}

func (s *costsState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *costsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

// selectedID returns the ID of the entry under the cursor.
func (a App) selectedID() (string, bool) {
	rows := a.breakdown.Entries
	if a.costs.cursor < 0 || a.costs.cursor >= len(rows) {
		return "", false
	}
	return rows[a.costs.cursor].Entry.ID, true
}

// apply runs a worksheet command and refreshes the cached breakdown.
func (a *App) apply(cmd worksheet.Command) error {
	b, err := a.ws.Apply(cmd)
	a.breakdown = b
	a.costs.clamp(len(b.Entries))
	if err != nil {
		a.log.Debug("worksheet command rejected", zap.String("cmd", fmt.Sprintf("%T", cmd)), zap.Error(err))
	}
	return err
}

// updateCostsKeys handles costs tab keys. ok is false when the key is not
// a costs tab binding and should fall through to the global handler.
func (a App) updateCostsKeys(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.breakdown.Entries)

	switch key {
	case "j", "down":
		a.costs.move(1, n)
	case "k", "up":
		a.costs.move(-1, n)
	case "g", "home":
		a.costs.cursor = 0
	case "G", "end":
		a.costs.cursor = n - 1
		a.costs.clamp(n)
	case "a":
		_ = a.apply(worksheet.AddEntry{})
		a.costs.cursor = len(a.breakdown.Entries) - 1
		m, cmd := a.costsStartEdit(worksheet.FieldName)
		return m, cmd, true
	case "d", "delete":
		id, ok := a.selectedID()
		if !ok {
			return a, nil, true
		}
		name := a.breakdown.Entries[a.costs.cursor].Entry.Name
		_ = a.apply(worksheet.RemoveEntry{ID: id})
		a.setNotice("removed "+name, false)
	case "n":
		m, cmd := a.costsStartEdit(worksheet.FieldName)
		return m, cmd, true
	case "enter", "v":
		m, cmd := a.costsStartEdit(worksheet.FieldAmount)
		return m, cmd, true
	case "t":
		id, ok := a.selectedID()
		if !ok {
			return a, nil, true
		}
		next := a.breakdown.Entries[a.costs.cursor].Entry.Currency.Toggle()
		_ = a.apply(worksheet.UpdateField{ID: id, Field: worksheet.FieldCurrency, Value: next.String()})
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) costsStartEdit(field worksheet.Field) (tea.Model, tea.Cmd) {
	if _, ok := a.selectedID(); !ok {
		return a, nil
	}
	e := a.breakdown.Entries[a.costs.cursor].Entry

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.Width = 24
	switch field {
	case worksheet.FieldName:
		ti.Placeholder = model.DefaultEntryName
		ti.SetValue(e.Name)
	case worksheet.FieldAmount:
		ti.Placeholder = "0,00"
		ti.SetValue(cli.FormatDecimal(e.Amount, 2))
	}
	ti.Focus()
	ti.CursorEnd()

	a.costs.editing = true
	a.costs.field = field
	a.costs.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateCostsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if id, ok := a.selectedID(); ok {
			err := a.apply(worksheet.UpdateField{ID: id, Field: a.costs.field, Value: a.costs.input.Value()})
			if err != nil {
				a.setNotice(err.Error(), true)
			}
		}
		a.costs.editing = false
		return a, nil
	case "esc":
		a.costs.editing = false
		return a, nil
	case "tab":
		// Commit and move to the other field.
		if id, ok := a.selectedID(); ok {
			_ = a.apply(worksheet.UpdateField{ID: id, Field: a.costs.field, Value: a.costs.input.Value()})
		}
		next := worksheet.FieldAmount
		if a.costs.field == worksheet.FieldAmount {
			next = worksheet.FieldName
		}
		return a.costsStartEdit(next)
	}

	var cmd tea.Cmd
	a.costs.input, cmd = a.costs.input.Update(msg)
	return a, cmd
}

func (a App) renderCostsTab(cw, h int) string {
	t := theme.Active
	bd := a.breakdown
	innerW := components.CardInnerWidth(cw)

	const (
		curW    = 4
		amountW = 14
		brlW    = 14
		shareW  = 8
	)
	nameW := innerW - curW - amountW - brlW - shareW - 6
	if nameW < 12 {
		nameW = 12
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	brlStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	usdStyle := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %*s %*s %*s %*s",
		nameW, "Name", curW, "Cur", amountW, "Amount", brlW, "R$", shareW, "Share")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	// Visible window keeps the cursor in view.
	visible := h - 12
	if visible < 3 {
		visible = 3
	}
	start := 0
	if a.costs.cursor >= visible {
		start = a.costs.cursor - visible + 1
	}
	end := start + visible
	if end > len(bd.Entries) {
		end = len(bd.Entries)
	}

	if len(bd.Entries) == 0 {
		body.WriteString(mutedStyle.Render("  No costs yet. Press [a] to add one."))
		body.WriteString("\n")
	}

	for i := start; i < end; i++ {
		row := bd.Entries[i]
		e := row.Entry
		selected := i == a.costs.cursor

		name := fmt.Sprintf("%-*s", nameW, truncStr(e.Name, nameW))
		amount := fmt.Sprintf("%*s", amountW, cli.FormatDecimal(e.Amount, 2))
		if selected && a.costs.editing {
			switch a.costs.field {
			case worksheet.FieldName:
				name = a.costs.input.View()
				if pad := nameW - lipgloss.Width(name); pad > 0 {
					name += strings.Repeat(" ", pad)
				}
			case worksheet.FieldAmount:
				amount = a.costs.input.View()
				if pad := amountW - lipgloss.Width(amount); pad > 0 {
					amount = strings.Repeat(" ", pad) + amount
				}
			}
		}
		rest := fmt.Sprintf(" %*s %s %*s %*s",
			curW, e.Currency.String(),
			amount,
			brlW, cli.FormatDecimal(row.Converted, 2),
			shareW, cli.FormatPercent(row.Share))

		if selected {
			line := markerStyle.Render("▸ ") + selStyle.Render(name) + selStyle.Render(rest)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += selStyle.Render(strings.Repeat(" ", pad))
			}
			body.WriteString(line)
		} else {
			curStyle := brlStyle
			if e.Currency == model.USD {
				curStyle = usdStyle
			}
			body.WriteString(spaceStyle.Render("  "))
			body.WriteString(nameStyle.Render(name))
			body.WriteString(curStyle.Render(rest))
		}
		body.WriteString("\n")
	}
	if len(bd.Entries) > end {
		body.WriteString(mutedStyle.Render(fmt.Sprintf("  … %d more", len(bd.Entries)-end)))
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	totalShare := "100,00%"
	if bd.Total <= 0 {
		totalShare = cli.FormatPercent(0)
	}
	body.WriteString(totalStyle.Render(fmt.Sprintf("  %-*s %*s %*s %*s %*s",
		nameW, "TOTAL", curW, "", amountW, "", brlW, cli.FormatDecimal(bd.Total, 2), shareW, totalShare)))
	body.WriteString("\n\n")

	hint := "[j/k] move  [a] add  [d] delete  [n] name  [Enter] amount  [t] currency"
	if a.costs.editing {
		hint = "[Enter] save  [Tab] next field  [Esc] cancel"
	}
	body.WriteString(mutedStyle.Render(hint))

	title := fmt.Sprintf("Fixed Costs  %d entries · %s", len(bd.Entries), cli.FormatRate(bd.Rate))

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Monthly Total", Value: cli.FormatBRL(bd.Total), Tone: components.ToneGood},
		{Label: "Per User", Value: cli.FormatBRL(bd.PerUser), Delta: cli.FormatTarget(bd.Allocation), Tone: components.ToneAccent},
	}, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(title, body.String(), cw))
	return b.String()
}
