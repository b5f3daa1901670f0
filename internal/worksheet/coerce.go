package worksheet

import (
	"math"
	"strconv"
	"strings"
)

var numberNoise = strings.NewReplacer("R$", "", "US$", "", "$", "", "%", "", " ", "", "\u00a0", "")

// ParseNumber coerces user input into a float. It accepts dot or comma
// decimals with optional thousands separators ("1.234,56", "1,234.56").
// Anything unparseable, NaN or infinite becomes 0.
func ParseNumber(s string) float64 {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The separator that appears last is the decimal one.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseCount coerces user input into a whole number, truncating decimals.
func ParseCount(s string) int {
	v := ParseNumber(s)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}
