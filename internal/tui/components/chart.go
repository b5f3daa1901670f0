package components

import (
	"strings"

	"github.com/theirongolddev/rateio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// HBar is one row of a horizontal bar chart.
type HBar struct {
	Label string
	Value float64
	Text  string // formatted value shown after the bar
}

// HBarChart renders labelled horizontal bars scaled to the largest value.
// Negative values render as empty bars.
func HBarChart(rows []HBar, color lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	peak := 0.0
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > labelW {
			labelW = w
		}
		if w := lipgloss.Width(r.Text); w > textW {
			textW = w
		}
		if r.Value > peak {
			peak = r.Value
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	barMax := width - labelW - textW - 2
	if barMax < 1 {
		barMax = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		n := 0
		if peak > 0 && r.Value > 0 {
			n = int(r.Value/peak*float64(barMax) + 0.5)
		}
		if n > barMax {
			n = barMax
		}
		line := labelStyle.Render(fitLabel(r.Label, labelW)) +
			spaceStyle.Render(" ") +
			barStyle.Render(strings.Repeat("▇", n)) +
			spaceStyle.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(strings.Repeat(" ", textW-lipgloss.Width(r.Text))+r.Text)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
