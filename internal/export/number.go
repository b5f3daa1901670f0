package export

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// formatNumber renders v with two decimals in pt-BR style: "1.234,56".
func formatNumber(v float64) string {
	s := dec(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "0" && frac == "00" {
		sign = ""
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// formatShare renders a 0-1 share as "33,33%".
func formatShare(share float64) string {
	return formatNumber(dec(share).Shift(2).InexactFloat64()) + "%"
}

// rawNumber is the machine-readable value spreadsheets read from x:num.
func rawNumber(v float64) string {
	return dec(v).String()
}

// dec converts v, mapping NaN and infinities to zero.
func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
