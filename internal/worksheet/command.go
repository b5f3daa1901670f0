package worksheet

import "github.com/theirongolddev/rateio/internal/model"

// Command is a single state change applied through Apply.
type Command interface {
	apply(w *Worksheet) error
}

// AddEntry appends an entry. A zero value adds the placeholder entry.
type AddEntry struct {
	Name     string
	Amount   float64
	Currency model.Currency
}

func (c AddEntry) apply(w *Worksheet) error {
	if c == (AddEntry{}) {
		w.Add()
		return nil
	}
	w.AddEntry(c.Name, c.Amount, c.Currency)
	return nil
}

// UpdateField edits one field from raw input.
type UpdateField struct {
	ID    string
	Field Field
	Value string
}

func (c UpdateField) apply(w *Worksheet) error { return w.Update(c.ID, c.Field, c.Value) }

// RemoveEntry deletes an entry.
type RemoveEntry struct{ ID string }

func (c RemoveEntry) apply(w *Worksheet) error {
	w.Remove(c.ID)
	return nil
}

// SetRate replaces the exchange rate.
type SetRate struct{ Rate float64 }

func (c SetRate) apply(w *Worksheet) error { return w.SetRate(c.Rate) }

// SetMode selects the allocation mode.
type SetMode struct{ Mode model.AllocationMode }

func (c SetMode) apply(w *Worksheet) error {
	w.SetMode(c.Mode)
	return nil
}

// ToggleMode flips the allocation mode.
type ToggleMode struct{}

func (ToggleMode) apply(w *Worksheet) error {
	w.ToggleMode()
	return nil
}

// SetTargetUsers stores the user-count target.
type SetTargetUsers struct{ Users int }

func (c SetTargetUsers) apply(w *Worksheet) error {
	w.SetTargetUsers(c.Users)
	return nil
}

// SetTargetPercentage stores the percentage target.
type SetTargetPercentage struct{ Percentage float64 }

func (c SetTargetPercentage) apply(w *Worksheet) error {
	w.SetTargetPercentage(c.Percentage)
	return nil
}

// Apply runs cmd and returns the recomputed breakdown. On error the state is
// unchanged and the breakdown reflects it.
func (w *Worksheet) Apply(cmd Command) (model.Breakdown, error) {
	err := cmd.apply(w)
	return w.Breakdown(), err
}
