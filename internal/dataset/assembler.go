// Package dataset builds the labeled training table from per-symbol price
// history and daily sentiment. The same indicator engine and feature schema
// used here are used verbatim by the serving path; this package adds only
// the join, the label, and the cross-symbol concatenation.
package dataset

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"marketpulse/internal/core"
	"marketpulse/internal/indicator"
	"marketpulse/internal/schema"
)

// Row is one labeled training example.
type Row struct {
	Ticker   string
	Date     time.Time
	Features schema.FeatureRow
	Target   int
}

// Table is the concatenated training table across symbols, ordered by
// (ticker, date) so repeated builds are byte-identical.
type Table struct {
	Rows []Row
}

// Assembler builds per-symbol training rows.
type Assembler struct {
	windows indicator.Windows
	logger  *zap.Logger
}

// NewAssembler creates an assembler. A nil logger disables logging.
func NewAssembler(w indicator.Windows, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{windows: w, logger: log}
}

// AssembleSymbol produces the training rows for one symbol:
//
//  1. drop bars violating OHLCV invariants, sort ascending, dedupe dates
//  2. compute indicators over the full surviving history
//  3. inner-join with sentiment by calendar date (absence drops the day;
//     nothing is imputed)
//  4. label each joined row 1 when the next surviving row's close is
//     strictly greater, 0 otherwise; the final row has no next and is dropped
//  5. drop rows still inside an indicator warm-up window
//
// Indicators are computed before the join so warm-up windows fill from real
// history, not from whatever slice survived the sentiment match.
func (a *Assembler) AssembleSymbol(ticker string, bars []core.PriceBar, sentiment []core.SentimentDay) ([]Row, error) {
	if len(bars) == 0 || len(sentiment) == 0 {
		return nil, core.ErrDataUnavailable
	}

	bars = cleanBars(bars, ticker, a.logger)
	if len(bars) == 0 {
		return nil, core.ErrDataUnavailable
	}

	series := indicator.Compute(bars, a.windows)

	scores := make(map[time.Time]float64, len(sentiment))
	for _, d := range sentiment {
		scores[core.Day(d.Date)] = d.Score
	}

	// Inner join: bar indices with a matching sentiment day
	joined := make([]int, 0, len(bars))
	for i, b := range bars {
		if _, ok := scores[core.Day(b.Date)]; ok {
			joined = append(joined, i)
		}
	}
	if len(joined) == 0 {
		a.logger.Warn("no sentiment days matched price history",
			zap.String("ticker", ticker),
			zap.Int("bars", len(bars)),
			zap.Int("sentiment_days", len(sentiment)),
		)
		return nil, core.ErrDataUnavailable
	}

	// Label over consecutive joined rows; the last one is unlabeled.
	rows := make([]Row, 0, len(joined))
	for j := 0; j+1 < len(joined); j++ {
		i := joined[j]
		if !series.RowDefined(i) {
			continue
		}

		target := 0
		if bars[joined[j+1]].Close > bars[i].Close {
			target = 1
		}

		rows = append(rows, Row{
			Ticker:   ticker,
			Date:     core.Day(bars[i].Date),
			Features: featureRow(bars[i], scores[core.Day(bars[i].Date)], series, i),
			Target:   target,
		})
	}
	return rows, nil
}

func featureRow(bar core.PriceBar, sentimentScore float64, s indicator.Series, i int) schema.FeatureRow {
	return schema.FeatureRow{
		schema.FeatureOpen:       bar.Open,
		schema.FeatureHigh:       bar.High,
		schema.FeatureLow:        bar.Low,
		schema.FeatureClose:      bar.Close,
		schema.FeatureVolume:     float64(bar.Volume),
		schema.FeatureSentiment:  sentimentScore,
		schema.FeatureSMA20:      s.SMA[i],
		schema.FeatureRSI14:      s.RSI[i],
		schema.FeatureMACD:       s.MACD[i],
		schema.FeatureMACDSignal: s.MACDSignal[i],
		schema.FeatureUpperBand:  s.UpperBand[i],
		schema.FeatureLowerBand:  s.LowerBand[i],
	}
}

// cleanBars drops invalid bars, sorts ascending by date and keeps the first
// bar per calendar date.
func cleanBars(bars []core.PriceBar, ticker string, log *zap.Logger) []core.PriceBar {
	out := make([]core.PriceBar, 0, len(bars))
	dropped := 0
	for _, b := range bars {
		if err := b.Validate(); err != nil {
			dropped++
			continue
		}
		out = append(out, b)
	}
	if dropped > 0 {
		log.Warn("dropped invalid bars", zap.String("ticker", ticker), zap.Int("count", dropped))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	deduped := out[:0]
	var prev time.Time
	for _, b := range out {
		d := core.Day(b.Date)
		if len(deduped) > 0 && d.Equal(prev) {
			continue
		}
		deduped = append(deduped, b)
		prev = d
	}
	return deduped
}

// Sort orders the table by (ticker, date).
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		if t.Rows[i].Ticker != t.Rows[j].Ticker {
			return t.Rows[i].Ticker < t.Rows[j].Ticker
		}
		return t.Rows[i].Date.Before(t.Rows[j].Date)
	})
}
