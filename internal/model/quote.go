package model

import "time"

// PairUSDBRL is the only quoted currency pair.
const PairUSDBRL = "USD-BRL"

// Quote is an exchange rate quote for a currency pair.
type Quote struct {
	Pair      string
	Bid       float64
	Ask       float64
	Rate      float64 // ask rounded to cents, BRL per USD
	QuotedAt  time.Time
	FetchedAt time.Time
}
