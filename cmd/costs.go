package cmd

import (
	"fmt"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Per-entry cost breakdown with shares",
	RunE:  runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)
}

func runCosts(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	bd := s.ws.Breakdown()

	fmt.Println()
	fmt.Println(cli.RenderTitle("FIXED COST DETAIL  " + cli.FormatRate(bd.Rate)))
	fmt.Println()

	if len(bd.Entries) == 0 {
		fmt.Println("  No costs configured.")
		return nil
	}

	rows := make([][]string, 0, len(bd.Entries))
	for _, e := range bd.Entries {
		rows = append(rows, []string{
			e.Entry.Name,
			e.Entry.Currency.String(),
			cli.FormatMoney(e.Entry.Amount, e.Entry.Currency),
			cli.FormatBRL(e.Converted),
			cli.FormatPercent(e.Share),
		})
	}
	totalShare := cli.FormatPercent(0)
	if bd.Total > 0 {
		totalShare = cli.FormatPercent(1)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Currency", "Amount", "Converted", "Share"},
		Rows:    rows,
		Footer:  []string{"TOTAL", "", "", cli.FormatBRL(bd.Total), totalShare},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Center, lipgloss.Right, lipgloss.Right, lipgloss.Right},
	}))

	// Share bars, largest first
	fmt.Println()
	ranked := pipeline.RankByConverted(bd.Entries)
	labelW := 0
	for _, e := range ranked {
		if w := len([]rune(e.Entry.Name)); w > labelW {
			labelW = w
		}
	}
	if labelW > 28 {
		labelW = 28
	}
	for _, e := range ranked {
		name := []rune(e.Entry.Name)
		if len(name) > labelW {
			name = append(name[:labelW-1], '…')
		}
		fmt.Println(cli.RenderKeyValue(string(name), cli.RenderShareBar(e.Share, 30), labelW))
	}

	totals := pipeline.TotalsByCurrency(s.ws.Entries())
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Costs in R$", cli.FormatBRL(totals[model.BRL]), 14))
	fmt.Println(cli.RenderKeyValue("Costs in US$", cli.FormatUSD(totals[model.USD])+
		" = "+cli.FormatBRL(totals[model.USD]*bd.Rate), 14))
	fmt.Println(cli.RenderKeyValue("Per user", cli.FormatBRL(bd.PerUser)+"  ("+cli.FormatTarget(bd.Allocation)+")", 14))
	return nil
}
