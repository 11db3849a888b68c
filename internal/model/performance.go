package model

// PerformanceSummary is the price change of one symbol over the fetched range.
type PerformanceSummary struct {
	Symbol     string   `json:"symbol"`
	StartPrice float64  `json:"start_price"`
	EndPrice   float64  `json:"end_price"`
	PctChange  float64  `json:"pct_change"`
	Profile    *Profile `json:"profile,omitempty"`
}

// Skipped records a symbol excluded from a batch and why.
type Skipped struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
	Err    string `json:"error"`
}

// NewSkipped builds a Skipped entry from an error.
func NewSkipped(symbol string, err error) Skipped {
	return Skipped{Symbol: symbol, Kind: ErrorKind(err), Err: err.Error()}
}
