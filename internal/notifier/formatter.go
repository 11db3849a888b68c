package notifier

import (
	"fmt"
	"html"
	"strings"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// price renders v rounded half away from zero to two decimals.
func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// pct renders a signed percentage with two decimals.
func pct(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func nullable(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return price(v.Float64)
}

func displayName(symbol string, p *model.Profile) string {
	if p != nil && p.Name != "" {
		return fmt.Sprintf("%s (%s)", html.EscapeString(symbol), html.EscapeString(p.Name))
	}
	return html.EscapeString(symbol)
}

func writeSkipped(b *strings.Builder, skipped []model.Skipped) {
	if len(skipped) == 0 {
		return
	}
	b.WriteString("\n⚠️ <b>Skipped:</b>\n")
	for _, s := range skipped {
		fmt.Fprintf(b, "  %s: %s\n", html.EscapeString(s.Symbol), s.Kind)
	}
}

// FormatOverview formats the ranked watchlist. topN <= 0 lists every symbol.
func FormatOverview(o *collector.Overview, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Market overview</b> | %s (%s → %s)\n\n",
		o.Timeframe, o.Start.Format(dateLayout), o.End.Format(dateLayout))

	rows := o.Summaries
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	if len(rows) == 0 {
		b.WriteString("No data available.\n")
	}
	for i, s := range rows {
		marker := "🟢"
		if s.PctChange < 0 {
			marker = "🔴"
		}
		fmt.Fprintf(&b, "%d. %s %s %s → %s (%s)\n",
			i+1, marker, displayName(s.Symbol, s.Profile), price(s.StartPrice), price(s.EndPrice), pct(s.PctChange))
	}
	writeSkipped(&b, o.Skipped)
	return b.String()
}

// FormatForecast formats both forecasts of a dashboard.
func FormatForecast(d *collector.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔮 <b>Forecast</b> | %s\n\n", displayName(d.Symbol, d.Profile))
	if d.Series.Empty() {
		b.WriteString("No data available.\n")
		return b.String()
	}
	last := d.Series.Last()
	fmt.Fprintf(&b, "Last close: %s (%s)\n", price(last.Close), last.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Range: %s – %s\n\n", price(d.Low), price(d.High))
	if d.ForecastError != "" {
		fmt.Fprintf(&b, "Forecast unavailable: %s\n", html.EscapeString(d.ForecastError))
		return b.String()
	}

	for _, r := range []model.ForecastResult{d.Forecasts.MovingAverage, d.Forecasts.LinearRegression} {
		if len(r.Points) == 0 {
			continue
		}
		end := r.Points[len(r.Points)-1]
		change := (end.PredictedClose - last.Close) / last.Close * 100
		fmt.Fprintf(&b, "📈 <b>%s</b> (%d days)\n", methodLabel(r.Method), r.HorizonDays)
		fmt.Fprintf(&b, "  %s: %s (%s)\n", end.Date.Format(dateLayout), price(end.PredictedClose), pct(change))
	}
	return b.String()
}

func methodLabel(m model.ForecastMethod) string {
	switch m {
	case model.MethodMovingAverage:
		return "Moving average"
	case model.MethodLinearRegression:
		return "Linear regression"
	default:
		return string(m)
	}
}

// FormatIndicators formats the latest value of every indicator.
func FormatIndicators(d *collector.Dashboard) string {
	var b strings.Builder
	set := d.Indicators
	cfg := set.Config
	fmt.Fprintf(&b, "📐 <b>Indicators</b> | %s\n\n", displayName(d.Symbol, d.Profile))
	if !d.Series.Empty() {
		last := d.Series.Last()
		fmt.Fprintf(&b, "Close: %s (%s)\n", price(last.Close), last.Date.Format(dateLayout))
	}
	fmt.Fprintf(&b, "SMA(%d): %s\n", cfg.SMAWindow, nullable(set.Latest(model.IndicatorSMA)))
	fmt.Fprintf(&b, "EMA(%d): %s\n", cfg.EMAWindow, nullable(set.Latest(model.IndicatorEMA)))
	fmt.Fprintf(&b, "RSI(%d): %s\n", cfg.RSIWindow, nullable(set.Latest(model.IndicatorRSI)))
	fmt.Fprintf(&b, "MACD(%d,%d,%d): %s | signal %s | hist %s\n",
		cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal,
		nullable(set.Latest(model.IndicatorMACD)),
		nullable(set.Latest(model.IndicatorMACDSignal)),
		nullable(set.Latest(model.IndicatorMACDHist)))
	fmt.Fprintf(&b, "Bollinger(%d, %s): %s / %s / %s\n",
		cfg.BBWindow, decimal.NewFromFloat(cfg.BBK).String(),
		nullable(set.Latest(model.IndicatorBBLower)),
		nullable(set.Latest(model.IndicatorBBMiddle)),
		nullable(set.Latest(model.IndicatorBBUpper)))

	sig := d.Signal
	if len(sig.Factors) > 0 {
		fmt.Fprintf(&b, "\n🧭 <b>Reading:</b> %s (%s)\n", sig.Stance, decimal.NewFromFloat(sig.TotalScore).StringFixed(2))
		for _, f := range sig.Factors {
			fmt.Fprintf(&b, "  %s: %s (%s)\n", f.Name, html.EscapeString(f.Commentary), decimal.NewFromFloat(f.Weighted).StringFixed(2))
		}
		if sig.Warning != "" {
			fmt.Fprintf(&b, "⚠️ %s\n", sig.Warning)
		}
	}
	return b.String()
}

// FormatComparison formats the cumulative return of each compared series.
func FormatComparison(c *collector.Comparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚖️ <b>Index comparison</b> | %s (%s → %s)\n\n",
		c.Timeframe, c.Start.Format(dateLayout), c.End.Format(dateLayout))
	if len(c.Series) == 0 {
		b.WriteString("No data available.\n")
	}
	for _, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		last := s.Points[len(s.Points)-1]
		fmt.Fprintf(&b, "%s: %s\n", html.EscapeString(s.Symbol), pct((last.Value-1)*100))
	}
	writeSkipped(&b, c.Skipped)
	return b.String()
}

// FormatError formats a command failure for the chat.
func FormatError(command string, err error) string {
	return fmt.Sprintf("❌ %s failed (%s): %s",
		html.EscapeString(command), model.ErrorKind(err), html.EscapeString(err.Error()))
}
