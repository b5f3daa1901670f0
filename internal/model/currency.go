package model

import (
	"fmt"
	"strings"
)

// Currency is one of the two supported currencies.
type Currency int

const (
	// BRL is the base currency. Totals and per-user costs are always in BRL.
	BRL Currency = iota
	// USD is the foreign currency, converted through the exchange rate.
	USD
)

// BaseCurrency and ForeignCurrency name the roles of the two currencies.
const (
	BaseCurrency    = BRL
	ForeignCurrency = USD
)

// Currencies lists every valid currency in display order.
var Currencies = []Currency{BRL, USD}

// String returns the ISO code.
func (c Currency) String() string {
	switch c {
	case BRL:
		return "BRL"
	case USD:
		return "USD"
	default:
		return fmt.Sprintf("Currency(%d)", int(c))
	}
}

// Symbol returns the display prefix used in pt-BR formatting.
func (c Currency) Symbol() string {
	if c == USD {
		return "US$"
	}
	return "R$"
}

// Valid reports whether c is one of the known currencies.
func (c Currency) Valid() bool {
	return c == BRL || c == USD
}

// IsForeign reports whether amounts in c need conversion.
func (c Currency) IsForeign() bool {
	return c == ForeignCurrency
}

// Toggle returns the other currency.
func (c Currency) Toggle() Currency {
	if c == USD {
		return BRL
	}
	return USD
}

// ParseCurrency parses an ISO code, case-insensitively.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BRL":
		return BRL, nil
	case "USD":
		return USD, nil
	}
	return BRL, fmt.Errorf("unknown currency %q (want BRL or USD)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Currency) UnmarshalText(b []byte) error {
	parsed, err := ParseCurrency(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
