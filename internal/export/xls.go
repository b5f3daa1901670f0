package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/theirongolddev/rateio/internal/model"
)

const utf8BOM = "\ufeff"

// xlsTemplate is an HTML table with Office number-format hints. Spreadsheet
// applications open it as a workbook when saved with a .xls extension.
var xlsTemplate = template.Must(template.New("xls").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
<style>
  table { border-collapse: collapse; font-family: Calibri, Arial, sans-serif; }
  td { border: 1px solid #d0d0d0; padding: 4px 8px; }
  .title { font-size: 16pt; font-weight: bold; }
  .section { background: #1f4e78; color: #ffffff; font-weight: bold; }
  .header { background: #d9e1f2; font-weight: bold; }
  .total { background: #fff2cc; font-weight: bold; }
  .currency-brl { mso-number-format: "\R\$\ \#\,\#\#0\.00"; }
  .currency-usd { mso-number-format: "\U\S\$\ \#\,\#\#0\.00"; }
  .percent { mso-number-format: "0\.00%"; }
  .text { mso-number-format: "\@"; }
</style>
</head>
<body>
<table>
  <tr><td colspan="5" class="title">{{.Title}}</td></tr>
  <tr><td colspan="5"></td></tr>
  <tr class="section"><td colspan="5">{{.General}}</td></tr>
  <tr><td class="text">{{.LabelDate}}</td><td colspan="4" class="text">{{.Date}}</td></tr>
  <tr><td class="text">{{.LabelRate}}</td><td colspan="4" class="currency-brl" x:num="{{.Rate.Raw}}">{{.Rate.Text}}</td></tr>
  <tr><td colspan="5"></td></tr>
  <tr class="section"><td colspan="5">{{.Detail}}</td></tr>
  <tr class="header">{{range .Header}}<td>{{.}}</td>{{end}}</tr>
{{- range .Rows}}
  <tr>
    <td class="text">{{.Name}}</td>
    <td class="text">{{.Currency}}</td>
    <td class="{{.AmountClass}}" x:num="{{.Amount.Raw}}">{{.Amount.Text}}</td>
    <td class="currency-brl" x:num="{{.Converted.Raw}}">{{.Converted.Text}}</td>
    <td class="percent" x:num="{{.Share.Raw}}">{{.Share.Text}}</td>
  </tr>
{{- end}}
  <tr class="total">
    <td colspan="3" style="text-align: right;">{{.LabelTotal}}</td>
    <td class="currency-brl" x:num="{{.Total.Raw}}">{{.Total.Text}}</td>
    <td class="percent" x:num="1">100,00%</td>
  </tr>
  <tr><td colspan="5"></td></tr>
  <tr class="section"><td colspan="5">{{.Allocation}}</td></tr>
  <tr><td class="text">{{.LabelMode}}</td><td colspan="4" class="text">{{.Mode}}</td></tr>
{{- if .ByUsers}}
  <tr><td class="text">{{.LabelTarget}}</td><td colspan="4" x:num="{{.Target.Raw}}">{{.Target.Text}}</td></tr>
{{- else}}
  <tr><td class="text">{{.LabelTarget}}</td><td colspan="4" class="percent" x:num="{{.Target.Raw}}">{{.Target.Text}}</td></tr>
{{- end}}
  <tr class="total"><td class="text">{{.LabelPerUser}}</td><td colspan="4" class="currency-brl" x:num="{{.PerUser.Raw}}">{{.PerUser.Text}}</td></tr>
</table>
</body>
</html>
`))

type cell struct {
	Raw  string
	Text string
}

func moneyCell(v float64) cell { return cell{Raw: rawNumber(v), Text: formatNumber(v)} }

type xlsRow struct {
	Name        string
	Currency    string
	AmountClass string
	Amount      cell
	Converted   cell
	Share       cell
}

type xlsView struct {
	Title      string
	General    string
	Detail     string
	Allocation string

	LabelDate    string
	LabelRate    string
	LabelTotal   string
	LabelMode    string
	LabelTarget  string
	LabelPerUser string

	Header  []string
	Date    string
	Mode    string
	ByUsers bool
	Rate    cell
	Total   cell
	Target  cell
	PerUser cell
	Rows    []xlsRow
}

func writeXLS(w io.Writer, r Report) error {
	b := r.Breakdown
	v := xlsView{
		Title:        titleReport,
		General:      titleGeneral,
		Detail:       titleDetail,
		Allocation:   titleAllocation,
		LabelDate:    labelDate,
		LabelRate:    labelRate,
		LabelTotal:   labelTotal,
		LabelMode:    labelMode,
		LabelPerUser: labelPerUser,
		Header:       detailHeader,
		Date:         r.GeneratedAt.Format(dateLayout),
		Rate:         moneyCell(b.Rate),
		Total:        moneyCell(b.Total),
		PerUser:      moneyCell(b.PerUser),
	}

	for _, eb := range b.Entries {
		class := "currency-brl"
		if eb.Entry.Currency == model.USD {
			class = "currency-usd"
		}
		v.Rows = append(v.Rows, xlsRow{
			Name:        eb.Entry.Name,
			Currency:    eb.Entry.Currency.String(),
			AmountClass: class,
			Amount:      moneyCell(eb.Entry.Amount),
			Converted:   moneyCell(eb.Converted),
			Share:       cell{Raw: rawNumber(eb.Share), Text: formatShare(eb.Share)},
		})
	}

	switch a := b.Allocation.(type) {
	case model.ByUserCount:
		v.ByUsers = true
		v.Mode = a.Mode().Label()
		v.LabelTarget = labelUsers
		v.Target = cell{Raw: fmt.Sprint(a.TargetUsers), Text: fmt.Sprint(a.TargetUsers)}
	case model.ByPercentage:
		v.Mode = a.Mode().Label()
		v.LabelTarget = labelPercentage
		v.Target = cell{
			Raw:  dec(a.TargetPercentage).Shift(-2).String(),
			Text: formatNumber(a.TargetPercentage) + "%",
		}
	default:
		v.Mode = "-"
		v.LabelTarget = labelPercentage
		v.Target = cell{Raw: "0", Text: "-"}
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	return xlsTemplate.Execute(w, v)
}
