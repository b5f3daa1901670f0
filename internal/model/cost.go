// Package model defines the domain types for rateio cost entries and breakdowns.
package model

// DefaultEntryName is the placeholder name given to newly added entries.
const DefaultEntryName = "New Cost"

// CostEntry is one recurring cost line.
type CostEntry struct {
	ID       string   `json:"id" toml:"-" yaml:"-"`
	Name     string   `json:"name" toml:"name" yaml:"name"`
	Amount   float64  `json:"amount" toml:"amount" yaml:"amount"`
	Currency Currency `json:"currency" toml:"currency" yaml:"currency"`
}

// EntryBreakdown is a cost entry with its converted amount and share of the total.
type EntryBreakdown struct {
	Entry     CostEntry
	Converted float64 // BRL
	Share     float64 // 0.0-1.0
}

// Breakdown is the full result of one engine run.
type Breakdown struct {
	Rate       float64
	Entries    []EntryBreakdown // insertion order
	Total      float64          // BRL
	Allocation Allocation
	PerUser    float64 // BRL
}
