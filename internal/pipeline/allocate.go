// Package pipeline implements the allocation engine: currency conversion,
// aggregation and per-user cost derivation. Every function is pure.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/rateio/internal/model"
)

// ConvertToBase returns the entry amount expressed in BRL.
// rate is BRL per USD and is only applied to foreign entries.
func ConvertToBase(e model.CostEntry, rate float64) float64 {
	if e.Currency.IsForeign() {
		return e.Amount * rate
	}
	return e.Amount
}

// TotalCost sums the converted amounts of all entries. An empty slice yields 0.
func TotalCost(entries []model.CostEntry, rate float64) float64 {
	var total float64
	for _, e := range entries {
		total += ConvertToBase(e, rate)
	}
	return total
}

// ShareOf returns the entry's converted amount as a fraction of total.
// Returns 0 when total is not positive.
func ShareOf(e model.CostEntry, rate, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return ConvertToBase(e, rate) / total
}

// PerUserCost derives the per-user cost from the total.
// A zero or negative user count yields 0 instead of Inf/NaN.
// Percentages are not bounded.
func PerUserCost(total float64, alloc model.Allocation) float64 {
	switch a := alloc.(type) {
	case model.ByUserCount:
		if a.TargetUsers > 0 {
			return total / float64(a.TargetUsers)
		}
		return 0
	case model.ByPercentage:
		return total * (a.TargetPercentage / 100)
	default:
		return 0
	}
}

// Compute runs the whole engine for one set of inputs.
// Entries keep their insertion order in the result.
func Compute(entries []model.CostEntry, rate float64, alloc model.Allocation) model.Breakdown {
	total := TotalCost(entries, rate)

	rows := make([]model.EntryBreakdown, 0, len(entries))
	for _, e := range entries {
		converted := ConvertToBase(e, rate)
		share := 0.0
		if total > 0 {
			share = converted / total
		}
		rows = append(rows, model.EntryBreakdown{
			Entry:     e,
			Converted: converted,
			Share:     share,
		})
	}

	return model.Breakdown{
		Rate:       rate,
		Entries:    rows,
		Total:      total,
		Allocation: alloc,
		PerUser:    PerUserCost(total, alloc),
	}
}

// TotalsByCurrency sums the original (unconverted) amounts per currency.
func TotalsByCurrency(entries []model.CostEntry) map[model.Currency]float64 {
	totals := make(map[model.Currency]float64, len(model.Currencies))
	for _, e := range entries {
		totals[e.Currency] += e.Amount
	}
	return totals
}

// RankByConverted returns a copy of rows sorted by converted amount, largest first.
// Ties keep insertion order.
func RankByConverted(rows []model.EntryBreakdown) []model.EntryBreakdown {
	ranked := make([]model.EntryBreakdown, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Converted > ranked[j].Converted
	})
	return ranked
}
