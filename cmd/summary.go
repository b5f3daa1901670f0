package cmd

import (
	"fmt"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Monthly total and per-user cost (default command)",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	bd := s.ws.Breakdown()

	fmt.Println()
	fmt.Println(cli.RenderTitle("INFRASTRUCTURE COSTS"))
	fmt.Println()

	if len(bd.Entries) == 0 {
		fmt.Println("  No costs configured.")
		fmt.Println("  Add some with --add name:amount:currency or in the [[costs]] section of the config.")
		return nil
	}

	rows := [][]string{
		{"USD/BRL rate", cli.FormatRate(bd.Rate)},
		{"Rate source", rateSourceLabel(s)},
		{"---"},
		{"Costs", fmt.Sprintf("%d", len(bd.Entries))},
		{"Monthly total", cli.FormatBRL(bd.Total)},
		{"---"},
		{"Allocation", allocationLabel(bd.Allocation)},
		{"Target", cli.FormatTarget(bd.Allocation)},
		{"Cost per user", cli.FormatBRL(bd.PerUser)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if alloc, ok := bd.Allocation.(model.ByUserCount); ok && alloc.TargetUsers <= 0 {
		fmt.Println()
		fmt.Println(cli.RenderWarning("target users is 0, per-user cost shown as R$ 0,00"))
	}
	return nil
}

func allocationLabel(a model.Allocation) string {
	if a == nil {
		return "-"
	}
	return a.Mode().Label()
}

func rateSourceLabel(s *session) string {
	label := s.rateSource
	if s.quote != nil {
		label += " (" + s.quote.QuotedAt.Local().Format("02/01/2006 15:04") + ")"
	}
	return label
}
