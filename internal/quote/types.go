package quote

// pairQuote is one entry of the /last/{pair} response. The API sends every
// number as a string.
type pairQuote struct {
	Code       string `json:"code"`
	CodeIn     string `json:"codein"`
	Name       string `json:"name"`
	High       string `json:"high"`
	Low        string `json:"low"`
	VarBid     string `json:"varBid"`
	PctChange  string `json:"pctChange"`
	Bid        string `json:"bid"`
	Ask        string `json:"ask"`
	Timestamp  string `json:"timestamp"`
	CreateDate string `json:"create_date"`
}

// lastResponse maps the pair key without its dash ("USDBRL") to the quote.
type lastResponse map[string]pairQuote
