package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, USD, c)

	c, err = ParseCurrency("BRL")
	require.NoError(t, err)
	assert.Equal(t, BRL, c)

	_, err = ParseCurrency("EUR")
	assert.Error(t, err)
}

func TestCurrency_Toggle(t *testing.T) {
	assert.Equal(t, USD, BRL.Toggle())
	assert.Equal(t, BRL, USD.Toggle())
	assert.True(t, USD.IsForeign())
	assert.False(t, BRL.IsForeign())
	assert.Equal(t, "US$", USD.Symbol())
}

func TestCurrency_TextRoundTrip(t *testing.T) {
	b, err := USD.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "USD", string(b))

	_, err = Currency(7).MarshalText()
	assert.Error(t, err)

	var c Currency
	assert.Error(t, c.UnmarshalText([]byte("JPY")))
}

func TestParseAllocationMode(t *testing.T) {
	for _, s := range []string{"percentage", "pct", "%", " Percent "} {
		m, err := ParseAllocationMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, ModePercentage, m, s)
	}
	for _, s := range []string{"users", "user", "COUNT"} {
		m, err := ParseAllocationMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, ModeUsers, m, s)
	}
	_, err := ParseAllocationMode("split")
	assert.Error(t, err)
}

func TestAllocationSettings_Active(t *testing.T) {
	s := AllocationSettings{Mode: ModeUsers, TargetUsers: 50, TargetPercentage: 8}
	assert.Equal(t, ByUserCount{TargetUsers: 50}, s.Active())

	s.Mode = ModePercentage
	assert.Equal(t, ByPercentage{TargetPercentage: 8}, s.Active())
	assert.Equal(t, ModePercentage, s.Active().Mode())
}
