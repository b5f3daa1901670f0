package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/rateio/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForShare returns a hex color that deepens as an entry's share grows.
func ColorForShare(share float64) string {
	t := theme.Active
	switch {
	case share >= 0.5:
		return string(t.Orange)
	case share >= 0.25:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// ShareBar renders a labelled share-of-total bar with its percentage.
func ShareBar(label string, share float64, pctText string, labelW, barWidth int) string {
	t := theme.Active

	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForShare(share)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForShare(share))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fitLabel(label, labelW)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(share) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%7s", pctText))
}

// ProgressBar renders a plain filled/empty bar with percentage, for loading states.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

// fitLabel pads or truncates s to exactly w columns.
func fitLabel(s string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(s)
	if lipgloss.Width(s) > w {
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > w {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}
