package components

import (
	"strings"

	"github.com/theirongolddev/rateio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports besides the key hints.
type Status struct {
	RateInfo string // e.g. "R$ 5,50 · live 2m ago"
	Fetching bool
	Notice   string
	IsError  bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().
		Foreground(t.Green).
		Background(t.Surface)
	if st.IsError {
		noticeStyle = noticeStyle.Foreground(t.Orange)
	}

	hints := []struct{ key, label string }{
		{"?", "help"}, {"r", "ate"}, {"m", "ode"}, {"e", "xport"}, {"q", "uit"},
	}
	var left strings.Builder
	left.WriteString(base.Render(" "))
	for i, h := range hints {
		if i > 0 {
			left.WriteString(base.Render("  "))
		}
		left.WriteString(keyStyle.Render("[" + h.key + "]"))
		left.WriteString(base.Render(h.label))
	}

	var right string
	switch {
	case st.Notice != "":
		right = noticeStyle.Render(st.Notice + " ")
	case st.Fetching:
		right = base.Render("fetching rate... ")
	case st.RateInfo != "":
		right = base.Render(st.RateInfo + " ")
	}

	// Pad middle
	padding := width - lipgloss.Width(left.String()) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	bar := left.String() + base.Render(strings.Repeat(" ", padding)) + right
	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(bar)
}
