package cmd

import (
	"fmt"

	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/tui"
	"github.com/theirongolddev/rateio/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		Worksheet:    s.ws,
		Config:       s.cfg,
		Logger:       s.log,
		RateSource:   s.rateSource,
		LastQuote:    s.quote,
		NeedSetup:    !config.Exists(),
		FetchOnStart: s.fetchLater,
	}
	// Typed nils must not reach the interfaces.
	if s.client != nil {
		opts.Fetcher = s.client
	}
	if s.cache != nil {
		opts.Cache = s.cache
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
