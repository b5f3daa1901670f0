package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AlignsUnicodeCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Amount"},
		Rows: [][]string{
			{"Serviço", "R$ 10,00"},
			{"---"},
			{"VPS", "R$ 1.109,99"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, l)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("empty table = %q", got)
	}
}

func TestRenderShareBar(t *testing.T) {
	out := RenderShareBar(0.5, 10)
	if strings.Count(out, "█") != 5 || strings.Count(out, "░") != 5 {
		t.Errorf("half bar = %q", out)
	}
	if !strings.Contains(out, "50,00%") {
		t.Errorf("missing percentage: %q", out)
	}
	if out := RenderShareBar(3, 4); strings.Count(out, "█") != 4 {
		t.Errorf("clamped bar = %q", out)
	}
	if RenderShareBar(0.5, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestRenderTable_Footer(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Name", "Cur", "Converted"},
		Rows:    [][]string{{"Railway", "USD", "R$ 110,00"}},
		Footer:  []string{"TOTAL", "", "R$ 110,00"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Center, lipgloss.Right},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[5], "TOTAL") {
		t.Errorf("footer line = %q", lines[5])
	}
	if !strings.Contains(lines[3], " USD ") {
		t.Errorf("centered currency cell missing: %q", lines[3])
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 5, lipgloss.Right); got != "   ab" {
		t.Errorf("right = %q", got)
	}
	if got := pad("ab", 5, lipgloss.Center); got != " ab  " {
		t.Errorf("center = %q", got)
	}
	if got := pad("abcdef", 3, lipgloss.Left); got != "abcdef" {
		t.Errorf("overflow = %q", got)
	}
}
