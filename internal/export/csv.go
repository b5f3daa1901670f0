package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/theirongolddev/rateio/internal/model"
)

// writeCSV writes the report with ';' separators so the decimal comma
// survives spreadsheet imports in pt-BR locales.
func writeCSV(w io.Writer, r Report) error {
	b := r.Breakdown
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	records := [][]string{
		{titleGeneral},
		{labelDate, r.GeneratedAt.Format(dateLayout)},
		{labelRate, formatNumber(b.Rate)},
		{},
		{titleDetail},
		detailHeader,
	}
	for _, eb := range b.Entries {
		records = append(records, []string{
			eb.Entry.Name,
			eb.Entry.Currency.String(),
			formatNumber(eb.Entry.Amount),
			formatNumber(eb.Converted),
			formatShare(eb.Share),
		})
	}
	records = append(records,
		[]string{labelTotal, "", "", formatNumber(b.Total), "100,00%"},
		[]string{},
		[]string{titleAllocation},
	)
	records = append(records, allocationRecords(b.Allocation)...)
	records = append(records, []string{labelPerUser, formatNumber(b.PerUser)})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// allocationRecords returns the mode and target lines for a.
func allocationRecords(a model.Allocation) [][]string {
	switch a := a.(type) {
	case model.ByUserCount:
		return [][]string{
			{labelMode, a.Mode().Label()},
			{labelUsers, fmt.Sprint(a.TargetUsers)},
		}
	case model.ByPercentage:
		return [][]string{
			{labelMode, a.Mode().Label()},
			{labelPercentage, formatNumber(a.TargetPercentage) + "%"},
		}
	}
	return [][]string{{labelMode, "-"}}
}
