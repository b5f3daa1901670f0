package cli

import (
	"math"
	"testing"

	"github.com/theirongolddev/rateio/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		c      model.Currency
		want   string
	}{
		{0, model.BRL, "R$ 0,00"},
		{109.99, model.BRL, "R$ 109,99"},
		{1234.56, model.BRL, "R$ 1.234,56"},
		{20, model.USD, "US$ 20,00"},
		{-1500, model.BRL, "R$ -1.500,00"},
		{1234567.891, model.BRL, "R$ 1.234.567,89"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.c); got != tt.want {
			t.Errorf("FormatMoney(%v, %v) = %q, want %q", tt.amount, tt.c, got, tt.want)
		}
	}
}

func TestFormatDecimal_Edges(t *testing.T) {
	if got := FormatDecimal(-0.001, 2); got != "0,00" {
		t.Errorf("negative zero = %q", got)
	}
	if got := FormatDecimal(math.NaN(), 2); got != "-" {
		t.Errorf("NaN = %q", got)
	}
	if got := FormatDecimal(42, 0); got != "42" {
		t.Errorf("no decimals = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1.000",
		1234567: "1.234.567",
		-1234:   "-1.234",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercentAndTarget(t *testing.T) {
	if got := FormatPercent(110 / 329.99); got != "33,33%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatTarget(model.ByPercentage{TargetPercentage: 8}); got != "8,00%" {
		t.Errorf("percentage target = %q", got)
	}
	if got := FormatTarget(model.ByUserCount{TargetUsers: 1500}); got != "1.500 users" {
		t.Errorf("user target = %q", got)
	}
	if got := FormatTarget(nil); got != "-" {
		t.Errorf("nil target = %q", got)
	}
}

func TestFormatRateAndDelta(t *testing.T) {
	if got := FormatRate(5.5); got != "R$ 5,50 / US$" {
		t.Errorf("FormatRate = %q", got)
	}
	if got := FormatDelta(5.62, 5.5); got != "+0,12" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(5.4, 5.5); got != "-0,10" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int64]string{
		0:     "0s",
		45:    "45s",
		125:   "2m",
		3725:  "1h 2m",
		90000: "1d 1h",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
