package model

import (
	"fmt"
	"strings"
)

// AllocationMode selects how the per-user cost is derived from the total.
type AllocationMode int

const (
	// ModePercentage charges each user a fixed percentage of the total.
	ModePercentage AllocationMode = iota
	// ModeUsers divides the total evenly across a target user count.
	ModeUsers
)

func (m AllocationMode) String() string {
	switch m {
	case ModePercentage:
		return "percentage"
	case ModeUsers:
		return "users"
	default:
		return fmt.Sprintf("AllocationMode(%d)", int(m))
	}
}

// Label returns a human-readable description of the mode.
func (m AllocationMode) Label() string {
	if m == ModeUsers {
		return "By user count"
	}
	return "By percentage of cost"
}

// ParseAllocationMode accepts "percentage"/"pct"/"%" and "users"/"user"/"count".
func ParseAllocationMode(s string) (AllocationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage", "percent", "pct", "%":
		return ModePercentage, nil
	case "users", "user", "count":
		return ModeUsers, nil
	}
	return ModePercentage, fmt.Errorf("unknown allocation mode %q (want percentage or users)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m AllocationMode) MarshalText() ([]byte, error) {
	if m != ModePercentage && m != ModeUsers {
		return nil, fmt.Errorf("invalid allocation mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AllocationMode) UnmarshalText(b []byte) error {
	parsed, err := ParseAllocationMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Allocation is the active allocation strategy. It is either ByUserCount or
// ByPercentage.
type Allocation interface {
	Mode() AllocationMode
	isAllocation()
}

// ByUserCount divides the total across TargetUsers.
type ByUserCount struct {
	TargetUsers int
}

// Mode implements Allocation.
func (ByUserCount) Mode() AllocationMode { return ModeUsers }
func (ByUserCount) isAllocation()        {}

// ByPercentage charges TargetPercentage (0-100 by convention) of the total.
type ByPercentage struct {
	TargetPercentage float64
}

// Mode implements Allocation.
func (ByPercentage) Mode() AllocationMode { return ModePercentage }
func (ByPercentage) isAllocation()        {}

// AllocationSettings stores both targets so toggling the mode never loses the
// value entered for the other one.
type AllocationSettings struct {
	Mode             AllocationMode `json:"mode" toml:"mode" yaml:"mode"`
	TargetUsers      int            `json:"target_users" toml:"target_users" yaml:"target_users"`
	TargetPercentage float64        `json:"target_percentage" toml:"target_percentage" yaml:"target_percentage"`
}

// Active returns the allocation variant selected by Mode.
func (s AllocationSettings) Active() Allocation {
	if s.Mode == ModeUsers {
		return ByUserCount{TargetUsers: s.TargetUsers}
	}
	return ByPercentage{TargetPercentage: s.TargetPercentage}
}
