package worksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rateio/internal/model"
)

func TestApply_Sequence(t *testing.T) {
	w := seeded()

	b, err := w.Apply(AddEntry{Name: "Domain", Amount: 10, Currency: model.USD})
	require.NoError(t, err)
	assert.Len(t, b.Entries, 4)
	assert.InDelta(t, 329.99+55, b.Total, 1e-9)

	b, err = w.Apply(SetTargetUsers{Users: 10})
	require.NoError(t, err)
	assert.Equal(t, model.ModePercentage, b.Allocation.Mode())

	b, err = w.Apply(ToggleMode{})
	require.NoError(t, err)
	assert.InDelta(t, (329.99+55)/10, b.PerUser, 1e-9)

	b, err = w.Apply(SetMode{Mode: model.ModePercentage})
	require.NoError(t, err)
	b, err = w.Apply(SetTargetPercentage{Percentage: 50})
	require.NoError(t, err)
	assert.InDelta(t, (329.99+55)/2, b.PerUser, 1e-9)

	b, err = w.Apply(RemoveEntry{ID: "3"})
	require.NoError(t, err)
	assert.InDelta(t, 110+110+55, b.Total, 1e-9)
}

func TestApply_ZeroAddEntryUsesPlaceholder(t *testing.T) {
	w := seeded()
	b, err := w.Apply(AddEntry{})
	require.NoError(t, err)
	require.Len(t, b.Entries, 4)
	assert.Equal(t, model.DefaultEntryName, b.Entries[3].Entry.Name)
}

func TestApply_ErrorLeavesStateUnchanged(t *testing.T) {
	w := seeded()
	before := w.Breakdown()

	b, err := w.Apply(SetRate{Rate: -3})
	assert.ErrorIs(t, err, ErrInvalidRate)
	assert.Equal(t, before.Total, b.Total)
	assert.Equal(t, 5.50, b.Rate)

	b, err = w.Apply(UpdateField{ID: "1", Field: FieldCurrency, Value: "JPY"})
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	assert.Equal(t, before.Total, b.Total)
}
