// Package components provides reusable TUI widgets for the rateio dashboard.
package components

import (
	"github.com/theirongolddev/rateio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Metric is one KPI shown in a MetricCard.
type Metric struct {
	Label string
	Value string
	Delta string // optional secondary line
	Tone  Tone
}

// Tone selects the value color of a metric.
type Tone int

const (
	ToneNormal Tone = iota
	ToneAccent
	ToneGood
	ToneWarn
)

func (tn Tone) color() lipgloss.Color {
	t := theme.Active
	switch tn {
	case ToneAccent:
		return t.AccentBright
	case ToneGood:
		return t.GreenBright
	case ToneWarn:
		return t.Orange
	}
	return t.TextPrimary
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// frame is the rounded, surface-filled border shared by every card.
// outerWidth includes the border.
func frame(outerWidth int) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Surface).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders a label, a toned value and an optional delta line.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(m.Tone.color()).Background(t.Surface).Bold(true)

	content := label.Render(m.Label) + "\n" + value.Render(m.Value)
	if m.Delta != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(m.Delta)
	}
	return frame(outerWidth).Render(content)
}

// MetricCardRow renders cards side by side, summing to exactly totalWidth.
func MetricCardRow(cards []Metric, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = MetricCard(c, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ContentCard renders body under an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	if title != "" {
		body = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true).Render(title) + "\n" + body
	}
	return frame(outerWidth).Render(body)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width left inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
