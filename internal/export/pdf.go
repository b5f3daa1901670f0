package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

func writePDF(w io.Writer, r Report) error {
	b := r.Breakdown

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}
	widths := []float64{70, 25, 35, 35, 25}

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}
	pair := func(label, value string) {
		pdf.CellFormat(60, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+titleReport), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	section(titleGeneral)
	pair(labelDate, r.GeneratedAt.Format(dateLayout))
	pair(labelRate, "R$ "+formatNumber(b.Rate))
	pdf.Ln(6)

	section(titleDetail)
	pdf.SetFont("Arial", "B", 9)
	for i, h := range detailHeader {
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, eb := range b.Entries {
		name := eb.Entry.Name
		if rs := []rune(name); len(rs) > 40 {
			name = string(rs[:37]) + "..."
		}
		cells := []string{
			name,
			eb.Entry.Currency.String(),
			eb.Entry.Currency.Symbol() + " " + formatNumber(eb.Entry.Amount),
			"R$ " + formatNumber(eb.Converted),
			formatShare(eb.Share),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(c), "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 7, tr(labelTotal), "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 7, tr("R$ "+formatNumber(b.Total)), "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, "100,00%", "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	section(titleAllocation)
	for _, rec := range allocationRecords(b.Allocation) {
		if len(rec) == 2 {
			pair(rec[0], rec[1])
		}
	}
	pdf.SetFont("Arial", "B", 10)
	pair(labelPerUser, "R$ "+formatNumber(b.PerUser))

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footer := fmt.Sprintf("Generated by rateio | %s", r.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 10, tr(footer), "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}
