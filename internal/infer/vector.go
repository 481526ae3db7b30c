// Package infer builds single feature vectors from live provider data and
// serves direction predictions through a TTL cache.
package infer

import (
	"fmt"

	"marketpulse/internal/core"
	"marketpulse/internal/indicator"
	"marketpulse/internal/schema"
)

// BuildVector derives one schema-ordered feature row from a price window and
// an aggregated sentiment score. Indicators are computed over the whole
// window and the most recent row where every indicator is defined becomes
// the vector. Empty input means the upstream returned nothing; a non-empty
// window with no defined row means the history is too short for the warm-up.
func BuildVector(bars []core.PriceBar, sentimentScore float64, w indicator.Windows) (schema.FeatureRow, error) {
	if len(bars) == 0 {
		return nil, core.WrapError(core.ErrUpstreamUnavailable, fmt.Errorf("no price bars in window"))
	}

	series := indicator.Compute(bars, w)
	for i := len(bars) - 1; i >= 0; i-- {
		if !series.RowDefined(i) {
			continue
		}
		b := bars[i]
		row := schema.FeatureRow{
			schema.FeatureOpen:       b.Open,
			schema.FeatureHigh:       b.High,
			schema.FeatureLow:        b.Low,
			schema.FeatureClose:      b.Close,
			schema.FeatureVolume:     float64(b.Volume),
			schema.FeatureSentiment:  sentimentScore,
			schema.FeatureSMA20:      series.SMA[i],
			schema.FeatureRSI14:      series.RSI[i],
			schema.FeatureMACD:       series.MACD[i],
			schema.FeatureMACDSignal: series.MACDSignal[i],
			schema.FeatureUpperBand:  series.UpperBand[i],
			schema.FeatureLowerBand:  series.LowerBand[i],
		}
		if err := row.Validate(); err != nil {
			return nil, err
		}
		return row, nil
	}
	return nil, core.WrapError(core.ErrInsufficientHistory,
		fmt.Errorf("%d bars, none clears the indicator warm-up", len(bars)))
}
