// Package performance reduces price series to start/end price and percent change
// and ranks symbols by it.
package performance

import (
	"fmt"
	"sort"

	"MarketLens/internal/model"
)

// Summarize uses the first and last close actually present in series.
func Summarize(series model.PriceSeries) (model.PerformanceSummary, error) {
	if series.Empty() {
		return model.PerformanceSummary{}, fmt.Errorf("summarize %s: %w", series.Symbol, model.ErrEmptySeries)
	}
	start := series.First().Close
	end := series.Last().Close
	if start == 0 {
		return model.PerformanceSummary{}, fmt.Errorf("summarize %s: start price is zero: %w", series.Symbol, model.ErrDivisionByZero)
	}
	return model.PerformanceSummary{
		Symbol:     series.Symbol,
		StartPrice: start,
		EndPrice:   end,
		PctChange:  (end - start) / start * 100,
	}, nil
}

// SummarizeBatch summarizes each series in order and ranks the results.
// Series that cannot be summarized are reported as skipped, never as zero rows.
func SummarizeBatch(batch []model.PriceSeries) ([]model.PerformanceSummary, []model.Skipped) {
	summaries := make([]model.PerformanceSummary, 0, len(batch))
	var skipped []model.Skipped
	for _, s := range batch {
		sum, err := Summarize(s)
		if err != nil {
			skipped = append(skipped, model.NewSkipped(s.Symbol, err))
			continue
		}
		summaries = append(summaries, sum)
	}
	Rank(summaries)
	return summaries, skipped
}

// Rank sorts summaries by descending percent change. Ties keep their input order.
func Rank(summaries []model.PerformanceSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].PctChange > summaries[j].PctChange
	})
}

// Top returns at most n leading summaries of an already ranked slice.
func Top(summaries []model.PerformanceSummary, n int) []model.PerformanceSummary {
	if n < 0 || n >= len(summaries) {
		return summaries
	}
	return summaries[:n]
}
