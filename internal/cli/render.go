package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Flexoki Dark, the CLI counterpart of the TUI default theme.
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	footerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	barStyle    = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// Table is a bordered text table. A row holding the single cell "---" draws
// a separator.
type Table struct {
	Headers []string
	Rows    [][]string
	Footer  []string           // bold totals row after a separator; optional
	Align   []lipgloss.Position // per column; default left for the first, right for the rest
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// RenderTable renders t with box-drawing borders. Widths are measured in
// terminal cells so accented names line up.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		if isSeparator(row) {
			return
		}
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	measure(t.Footer)

	align := func(i int) lipgloss.Position {
		if i < len(t.Align) {
			return t.Align[i]
		}
		if i == 0 {
			return lipgloss.Left
		}
		return lipgloss.Right
	}

	rule := func(left, mid, right string) string {
		segs := make([]string, cols)
		for i, w := range widths {
			segs[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(segs, mid)+right) + "\n"
	}

	line := func(row []string, style lipgloss.Style, header bool) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pos := align(i)
			if header {
				pos = lipgloss.Left
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], pos) + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle, false))
	}
	if len(t.Footer) > 0 {
		b.WriteString(rule("├", "┼", "┤"))
		b.WriteString(line(t.Footer, footerStyle, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderShareBar renders a 0-1 share as a fixed-width bar followed by the percentage.
func RenderShareBar(share float64, width int) string {
	if width <= 0 {
		return ""
	}
	share = min(max(share, 0), 1)

	filled := int(share*float64(width) + 0.5)
	bar := barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, mutedStyle.Render(FormatPercent(share)))
}

// RenderKeyValue renders an aligned "label  value" line.
func RenderKeyValue(label, value string, labelWidth int) string {
	return "  " + mutedStyle.Render(pad(label, labelWidth, lipgloss.Left)) + "  " + valueStyle.Render(value)
}

// RenderWarning renders a highlighted warning line.
func RenderWarning(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == "---"
}

func pad(s string, w int, pos lipgloss.Position) string {
	n := w - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	switch pos {
	case lipgloss.Right:
		return strings.Repeat(" ", n) + s
	case lipgloss.Center:
		return strings.Repeat(" ", n/2) + s + strings.Repeat(" ", n-n/2)
	default:
		return s + strings.Repeat(" ", n)
	}
}
