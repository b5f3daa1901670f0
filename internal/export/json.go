package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/rateio/internal/model"
)

type jsonEntry struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Currency  model.Currency `json:"currency"`
	Amount    float64        `json:"amount"`
	Converted float64        `json:"converted"`
	Share     float64        `json:"share"`
}

type jsonAllocation struct {
	Mode             model.AllocationMode `json:"mode"`
	TargetUsers      *int                 `json:"target_users,omitempty"`
	TargetPercentage *float64             `json:"target_percentage,omitempty"`
}

type jsonReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Rate        float64         `json:"rate"`
	Entries     []jsonEntry     `json:"entries"`
	Total       float64         `json:"total"`
	Allocation  *jsonAllocation `json:"allocation,omitempty"`
	PerUser     float64         `json:"per_user"`
}

func writeJSON(w io.Writer, r Report) error {
	b := r.Breakdown
	out := jsonReport{
		GeneratedAt: r.GeneratedAt,
		Rate:        b.Rate,
		Entries:     make([]jsonEntry, 0, len(b.Entries)),
		Total:       b.Total,
		PerUser:     b.PerUser,
	}
	for _, eb := range b.Entries {
		out.Entries = append(out.Entries, jsonEntry{
			ID:        eb.Entry.ID,
			Name:      eb.Entry.Name,
			Currency:  eb.Entry.Currency,
			Amount:    eb.Entry.Amount,
			Converted: eb.Converted,
			Share:     eb.Share,
		})
	}
	switch a := b.Allocation.(type) {
	case model.ByUserCount:
		out.Allocation = &jsonAllocation{Mode: a.Mode(), TargetUsers: &a.TargetUsers}
	case model.ByPercentage:
		out.Allocation = &jsonAllocation{Mode: a.Mode(), TargetPercentage: &a.TargetPercentage}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
