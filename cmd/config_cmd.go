// Package cmd implements the rateio CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(cli.RenderWarning(err.Error()))
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default rate:      %s\n", cli.FormatRate(cfg.General.DefaultRate))
	fmt.Println()

	fmt.Println("  [Allocation]")
	fmt.Printf("    Mode:              %s\n", cfg.Allocation.Mode.Label())
	fmt.Printf("    Target users:      %d\n", cfg.Allocation.TargetUsers)
	fmt.Printf("    Target percentage: %s%%\n", cli.FormatDecimal(cfg.Allocation.TargetPercentage, 2))
	fmt.Println()

	fmt.Println("  [Quote]")
	fmt.Printf("    Fetch on start:    %v\n", cfg.Quote.AutoFetch)
	if u := config.GetQuoteURL(cfg); u != "" {
		fmt.Printf("    Base URL:          %s\n", u)
	} else {
		fmt.Println("    Base URL:          default")
	}
	fmt.Printf("    Timeout:           %ds\n", cfg.Quote.TimeoutSec)
	fmt.Printf("    Cache:             %s\n", config.CachePath())
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Format:            %s\n", cfg.Export.Format)
	dir := cfg.Export.Dir
	if dir == "" {
		dir = "current directory"
	}
	fmt.Printf("    Directory:         %s\n", dir)
	fmt.Printf("    File name:         %s\n", cfg.Export.FileName)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:             %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:             %s\n", config.GetLogLevel(cfg))
	fmt.Printf("    File:              %s\n", config.LogPath(cfg))
	fmt.Println()

	fmt.Printf("  [Costs] %d seed entries\n", len(cfg.Costs))
	for _, c := range cfg.Costs {
		fmt.Printf("    %-28s %s\n", c.Name, cli.FormatMoney(c.Amount, c.Currency))
	}
	fmt.Println()

	fmt.Println("  Run `rateio setup` to reconfigure.")
	return nil
}
