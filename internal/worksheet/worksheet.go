// Package worksheet owns the mutable calculator state (entries, exchange rate,
// allocation settings) and re-runs the allocation engine after every change.
package worksheet

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/pipeline"
)

var (
	// ErrInvalidRate is returned for non-positive, NaN or infinite rates.
	ErrInvalidRate = errors.New("worksheet: exchange rate must be a positive number")
	// ErrInvalidCurrency is returned when a currency value does not parse.
	ErrInvalidCurrency = errors.New("worksheet: invalid currency")
	// ErrUnknownField is returned by Update for fields other than name, amount and currency.
	ErrUnknownField = errors.New("worksheet: unknown field")
)

// Field names an editable CostEntry field.
type Field string

const (
	FieldName     Field = "name"
	FieldAmount   Field = "amount"
	FieldCurrency Field = "currency"
)

// Worksheet is the session-local calculator state. It is not safe for
// concurrent use; callers serialize access (the TUI does so through its
// update loop).
type Worksheet struct {
	entries  []model.CostEntry
	rate     float64
	settings model.AllocationSettings
	newID    func() string
}

// New creates a worksheet. Entries without an ID, or with an ID already used,
// receive a fresh one.
func New(rate float64, settings model.AllocationSettings, entries ...model.CostEntry) *Worksheet {
	w := &Worksheet{
		rate:     rate,
		settings: settings,
		newID:    uuid.NewString,
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = w.newID()
		}
		seen[e.ID] = struct{}{}
		w.entries = append(w.entries, e)
	}
	return w
}

// Entries returns a copy of the entries in insertion order.
func (w *Worksheet) Entries() []model.CostEntry {
	out := make([]model.CostEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Len returns the number of entries.
func (w *Worksheet) Len() int { return len(w.entries) }

// Entry returns the entry with the given id.
func (w *Worksheet) Entry(id string) (model.CostEntry, bool) {
	if i := w.indexOf(id); i >= 0 {
		return w.entries[i], true
	}
	return model.CostEntry{}, false
}

// Rate returns the current exchange rate (BRL per USD).
func (w *Worksheet) Rate() float64 { return w.rate }

// Settings returns the stored allocation settings, including the inactive target.
func (w *Worksheet) Settings() model.AllocationSettings { return w.settings }

// Allocation returns the active allocation variant.
func (w *Worksheet) Allocation() model.Allocation { return w.settings.Active() }

// Breakdown runs the engine on the current state.
func (w *Worksheet) Breakdown() model.Breakdown {
	return pipeline.Compute(w.entries, w.rate, w.settings.Active())
}

// Add appends an entry with placeholder values and returns it.
func (w *Worksheet) Add() model.CostEntry {
	return w.AddEntry(model.DefaultEntryName, 0, model.BaseCurrency)
}

// AddEntry appends an entry with the given values and a fresh id.
func (w *Worksheet) AddEntry(name string, amount float64, currency model.Currency) model.CostEntry {
	e := model.CostEntry{
		ID:       w.uniqueID(),
		Name:     name,
		Amount:   amount,
		Currency: currency,
	}
	w.entries = append(w.entries, e)
	return e
}

// Update sets one field of the entry with the given id from raw user input.
// Amounts go through ParseNumber. An unknown id is a no-op.
func (w *Worksheet) Update(id string, field Field, value string) error {
	i := w.indexOf(id)
	if i < 0 {
		return nil
	}

	switch field {
	case FieldName:
		w.entries[i].Name = value
	case FieldAmount:
		w.entries[i].Amount = ParseNumber(value)
	case FieldCurrency:
		c, err := model.ParseCurrency(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCurrency, err)
		}
		w.entries[i].Currency = c
	default:
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return nil
}

// UpdateName renames an entry. Unknown ids are ignored.
func (w *Worksheet) UpdateName(id, name string) {
	if i := w.indexOf(id); i >= 0 {
		w.entries[i].Name = name
	}
}

// UpdateAmount sets an entry amount. Unknown ids are ignored.
func (w *Worksheet) UpdateAmount(id string, amount float64) {
	if i := w.indexOf(id); i >= 0 {
		w.entries[i].Amount = amount
	}
}

// UpdateCurrency sets an entry currency. Unknown ids and invalid currencies are ignored.
func (w *Worksheet) UpdateCurrency(id string, c model.Currency) {
	if !c.Valid() {
		return
	}
	if i := w.indexOf(id); i >= 0 {
		w.entries[i].Currency = c
	}
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (w *Worksheet) Remove(id string) {
	i := w.indexOf(id)
	if i < 0 {
		return
	}
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
}

// SetRate replaces the exchange rate. Invalid rates leave the current one in place.
func (w *Worksheet) SetRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	w.rate = rate
	return nil
}

// SetMode switches the active allocation mode. Both targets are kept.
func (w *Worksheet) SetMode(m model.AllocationMode) {
	w.settings.Mode = m
}

// ToggleMode flips between percentage and user-count allocation.
func (w *Worksheet) ToggleMode() model.AllocationMode {
	if w.settings.Mode == model.ModeUsers {
		w.settings.Mode = model.ModePercentage
	} else {
		w.settings.Mode = model.ModeUsers
	}
	return w.settings.Mode
}

// SetTargetUsers stores the user-count target. Zero is allowed and yields a 0 per-user cost.
func (w *Worksheet) SetTargetUsers(n int) {
	w.settings.TargetUsers = n
}

// SetTargetPercentage stores the percentage target. It is not bounded.
func (w *Worksheet) SetTargetPercentage(p float64) {
	w.settings.TargetPercentage = p
}

func (w *Worksheet) indexOf(id string) int {
	for i, e := range w.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (w *Worksheet) uniqueID() string {
	for {
		id := w.newID()
		if w.indexOf(id) < 0 {
			return id
		}
	}
}
