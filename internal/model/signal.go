package model

// FactorScore is one indicator's contribution to a Signal.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// Signal summarizes the latest indicator values into one score in [-2, 2].
// Positive scores mean the price looks stretched to the downside.
type Signal struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Stance     string        `json:"stance"`
	Warning    string        `json:"warning,omitempty"`
}
