package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/pipeline"
	"github.com/theirongolddev/rateio/internal/tui/components"
	"github.com/theirongolddev/rateio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const topCostsLimit = 5

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	bd := a.breakdown
	var b strings.Builder

	// Row 1: KPI cards
	rateDelta := a.rateSource
	if a.lastQuote != nil && a.lastQuote.Rate != bd.Rate {
		rateDelta += " (quote " + cli.FormatDelta(bd.Rate, a.lastQuote.Rate) + ")"
	}
	perUserTone := components.ToneAccent
	if bd.PerUser <= 0 && len(bd.Entries) > 0 {
		perUserTone = components.ToneWarn
	}
	cards := []components.Metric{
		{Label: "Monthly Total", Value: cli.FormatBRL(bd.Total), Delta: fmt.Sprintf("%d costs", len(bd.Entries)), Tone: components.ToneGood},
		{Label: "Per User", Value: cli.FormatBRL(bd.PerUser), Delta: cli.FormatTarget(bd.Allocation), Tone: perUserTone},
		{Label: "USD/BRL", Value: cli.FormatRate(bd.Rate), Delta: rateDelta},
		{Label: "Allocation", Value: allocationMode(bd.Allocation).Label(), Delta: "[m] to switch"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Share of total + currency totals
	halves := components.LayoutRow(cw, 2)
	shareW := halves[0]
	if a.isCompactLayout() {
		shareW = cw
	}
	shareCard := components.ContentCard("Share of Total", a.renderShareBars(components.CardInnerWidth(shareW)), shareW)

	totals := pipeline.TotalsByCurrency(a.ws.Entries())
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	brlStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	usdStyle := lipgloss.NewStyle().Foreground(t.BlueBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var curBody strings.Builder
	curBody.WriteString(labelStyle.Render("Costs in R$    ") + brlStyle.Render(cli.FormatBRL(totals[model.BRL])) + "\n")
	curBody.WriteString(labelStyle.Render("Costs in US$   ") + usdStyle.Render(cli.FormatUSD(totals[model.USD])))
	curBody.WriteString(dimStyle.Render("  → " + cli.FormatBRL(totals[model.USD]*bd.Rate)) + "\n")
	curBody.WriteString(labelStyle.Render("Total (R$)     ") + brlStyle.Render(cli.FormatBRL(bd.Total)) + "\n")
	if bd.Total > 0 && bd.Rate > 0 {
		curBody.WriteString(labelStyle.Render("Total (US$)    ") + usdStyle.Render(cli.FormatUSD(bd.Total/bd.Rate)))
	}
	curCard := components.ContentCard("By Currency", curBody.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(shareCard)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("By Currency", curBody.String(), cw))
	} else {
		b.WriteString(components.CardRow([]string{shareCard, curCard}))
	}
	b.WriteString("\n")

	// Row 3: Largest costs
	ranked := pipeline.RankByConverted(bd.Entries)
	if len(ranked) > topCostsLimit {
		ranked = ranked[:topCostsLimit]
	}
	if len(ranked) > 0 {
		rows := make([]components.HBar, len(ranked))
		for i, r := range ranked {
			rows[i] = components.HBar{
				Label: r.Entry.Name,
				Value: r.Converted,
				Text:  cli.FormatBRL(r.Converted),
			}
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Largest Costs (top %d)", len(ranked)),
			components.HBarChart(rows, t.Accent, components.CardInnerWidth(cw)),
			cw,
		))
	}

	return b.String()
}

// renderShareBars draws one share-of-total bar per entry, in insertion order.
func (a App) renderShareBars(innerW int) string {
	t := theme.Active
	rows := a.breakdown.Entries
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No costs entered.")
	}

	labelW := innerW / 3
	if labelW < 10 {
		labelW = 10
	}
	barW := innerW - labelW - 9
	if barW < 4 {
		barW = 4
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, components.ShareBar(r.Entry.Name, r.Share, cli.FormatPercent(r.Share), labelW, barW))
	}
	return strings.Join(lines, "\n")
}

func allocationMode(alloc model.Allocation) model.AllocationMode {
	if alloc == nil {
		return model.ModePercentage
	}
	return alloc.Mode()
}
