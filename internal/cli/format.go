// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/rateio/internal/model"
)

// FormatDecimal formats v with the given number of decimals in pt-BR style.
// e.g., 1234.5 -> "1.234,50"
func FormatDecimal(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', places, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	n, _ := strconv.ParseInt(intPart, 10, 64)
	out := FormatNumber(n)
	if frac != "" {
		out += "," + frac
	}
	if v < 0 && strings.Trim(s, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatMoney formats an amount with its currency symbol.
// e.g., (1234.56, BRL) -> "R$ 1.234,56", (20, USD) -> "US$ 20,00"
func FormatMoney(amount float64, c model.Currency) string {
	return c.Symbol() + " " + FormatDecimal(amount, 2)
}

// FormatBRL formats a base-currency amount.
func FormatBRL(amount float64) string {
	return FormatMoney(amount, model.BRL)
}

// FormatUSD formats a foreign-currency amount.
func FormatUSD(amount float64) string {
	return FormatMoney(amount, model.USD)
}

// FormatRate formats an exchange rate as BRL per USD.
func FormatRate(rate float64) string {
	return "R$ " + FormatDecimal(rate, 2) + " / US$"
}

// FormatNumber adds pt-BR thousands separators to an integer.
// e.g., 1234567 -> "1.234.567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte('.')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 share as a percentage string.
func FormatPercent(f float64) string {
	return FormatDecimal(f*100, 2) + "%"
}

// FormatTarget formats the active allocation target.
// e.g., ByUserCount{50} -> "50 users", ByPercentage{8} -> "8,00%"
func FormatTarget(a model.Allocation) string {
	switch a := a.(type) {
	case model.ByUserCount:
		if a.TargetUsers == 1 {
			return "1 user"
		}
		return FormatNumber(int64(a.TargetUsers)) + " users"
	case model.ByPercentage:
		return FormatDecimal(a.TargetPercentage, 2) + "%"
	}
	return "-"
}

// FormatDelta formats a rate change with sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatDecimal(delta, 2)
	}
	return "-" + FormatDecimal(-delta, 2)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}
