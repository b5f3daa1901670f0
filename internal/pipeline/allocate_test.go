package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rateio/internal/model"
)

const tolerance = 1e-9

func sampleEntries() []model.CostEntry {
	return []model.CostEntry{
		{ID: "1", Name: "Railway subscription", Amount: 20, Currency: model.USD},
		{ID: "2", Name: "Apple Developer fees", Amount: 20, Currency: model.USD},
		{ID: "3", Name: "Hostinger temporary VPS", Amount: 109.99, Currency: model.BRL},
	}
}

func TestConvertToBase_BRLIsIdentity(t *testing.T) {
	e := model.CostEntry{Amount: 109.99, Currency: model.BRL}
	for _, rate := range []float64{0.01, 1, 5.5, 1000} {
		assert.Equal(t, 109.99, ConvertToBase(e, rate), "rate %v", rate)
	}
}

func TestConvertToBase_USDMultipliesByRate(t *testing.T) {
	cases := []struct {
		amount, rate float64
	}{
		{0, 5.5},
		{20, 5.5},
		{1, 0.5},
		{1234.56, 4.97},
	}
	for _, tc := range cases {
		e := model.CostEntry{Amount: tc.amount, Currency: model.USD}
		assert.Equal(t, tc.amount*tc.rate, ConvertToBase(e, tc.rate))
	}
}

func TestTotalCost_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TotalCost(nil, 5.5))
	assert.Equal(t, 0.0, TotalCost([]model.CostEntry{}, 1))
}

func TestTotalCost_PermutationInvariant(t *testing.T) {
	entries := sampleEntries()
	want := TotalCost(entries, 5.5)

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range perms {
		shuffled := []model.CostEntry{entries[p[0]], entries[p[1]], entries[p[2]]}
		assert.InDelta(t, want, TotalCost(shuffled, 5.5), tolerance, "perm %v", p)
	}
}

func TestShareOf_ZeroTotal(t *testing.T) {
	entries := []model.CostEntry{
		{Amount: 0, Currency: model.BRL},
		{Amount: 0, Currency: model.USD},
	}
	total := TotalCost(entries, 5.5)
	require.Equal(t, 0.0, total)

	for _, e := range entries {
		share := ShareOf(e, 5.5, total)
		assert.Equal(t, 0.0, share)
		assert.False(t, math.IsNaN(share))
	}
}

func TestShareOf_SumsToOne(t *testing.T) {
	entries := sampleEntries()
	total := TotalCost(entries, 5.5)

	var sum float64
	for _, e := range entries {
		sum += ShareOf(e, 5.5, total)
	}
	assert.InDelta(t, 1.0, sum, tolerance)
}

func TestPerUserCost_ZeroUsers(t *testing.T) {
	got := PerUserCost(329.99, model.ByUserCount{TargetUsers: 0})
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsInf(got, 0))

	assert.Equal(t, 0.0, PerUserCost(329.99, model.ByUserCount{TargetUsers: -3}))
}

func TestPerUserCost_PercentageBounds(t *testing.T) {
	assert.Equal(t, 0.0, PerUserCost(329.99, model.ByPercentage{TargetPercentage: 0}))
	assert.Equal(t, 329.99, PerUserCost(329.99, model.ByPercentage{TargetPercentage: 100}))

	// Out-of-range percentages are applied as-is.
	assert.InDelta(t, -32.999, PerUserCost(329.99, model.ByPercentage{TargetPercentage: -10}), tolerance)
	assert.InDelta(t, 659.98, PerUserCost(329.99, model.ByPercentage{TargetPercentage: 200}), tolerance)
}

func TestPerUserCost_NilAllocation(t *testing.T) {
	assert.Equal(t, 0.0, PerUserCost(100, nil))
}

func TestCompute_ReferenceScenario(t *testing.T) {
	entries := sampleEntries()

	pct := Compute(entries, 5.50, model.ByPercentage{TargetPercentage: 8})
	assert.InDelta(t, 329.99, pct.Total, tolerance)
	assert.InDelta(t, 26.3992, pct.PerUser, tolerance)

	users := Compute(entries, 5.50, model.ByUserCount{TargetUsers: 50})
	assert.InDelta(t, 329.99, users.Total, tolerance)
	assert.InDelta(t, 6.5998, users.PerUser, tolerance)

	require.Len(t, pct.Entries, 3)
	assert.Equal(t, "1", pct.Entries[0].Entry.ID)
	assert.Equal(t, "3", pct.Entries[2].Entry.ID)
	assert.InDelta(t, 110.0, pct.Entries[0].Converted, tolerance)
	assert.InDelta(t, 109.99/329.99, pct.Entries[2].Share, tolerance)
	assert.Equal(t, 5.50, pct.Rate)
}

func TestCompute_Idempotent(t *testing.T) {
	entries := sampleEntries()
	alloc := model.ByUserCount{TargetUsers: 7}

	first := Compute(entries, 5.5, alloc)
	second := Compute(entries, 5.5, alloc)
	assert.Equal(t, first, second)
}

func TestCompute_EmptyEntries(t *testing.T) {
	b := Compute(nil, 5.5, model.ByUserCount{TargetUsers: 10})
	assert.Empty(t, b.Entries)
	assert.Equal(t, 0.0, b.Total)
	assert.Equal(t, 0.0, b.PerUser)
}

func TestTotalsByCurrency(t *testing.T) {
	totals := TotalsByCurrency(sampleEntries())
	assert.Equal(t, 40.0, totals[model.USD])
	assert.Equal(t, 109.99, totals[model.BRL])
}

func TestRankByConverted(t *testing.T) {
	b := Compute(sampleEntries(), 5.5, model.ByPercentage{TargetPercentage: 8})
	ranked := RankByConverted(b.Entries)

	require.Len(t, ranked, 3)
	assert.Equal(t, "1", ranked[0].Entry.ID) // 110.00, first of the tie
	assert.Equal(t, "2", ranked[1].Entry.ID)
	assert.Equal(t, "3", ranked[2].Entry.ID)
	// Input left untouched.
	assert.Equal(t, "1", b.Entries[0].Entry.ID)
}

func BenchmarkCompute(b *testing.B) {
	entries := make([]model.CostEntry, 0, 1000)
	for i := 0; i < 1000; i++ {
		cur := model.BRL
		if i%2 == 0 {
			cur = model.USD
		}
		entries = append(entries, model.CostEntry{Amount: float64(i), Currency: cur})
	}
	alloc := model.ByUserCount{TargetUsers: 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compute(entries, 5.5, alloc)
	}
}
