// Package schema pins the feature contract shared by the training-table
// build and the inference vector build. Both producers reference Features
// for column presence and column order; neither carries its own list. The
// model's decision boundary is order-sensitive, so divergence here corrupts
// predictions without an error anywhere else in the pipeline.
package schema

import (
	"fmt"
	"math"

	"marketpulse/internal/core"
)

// Feature names. Values match the training-table header verbatim.
const (
	FeatureOpen       = "Open"
	FeatureHigh       = "High"
	FeatureLow        = "Low"
	FeatureClose      = "Close"
	FeatureVolume     = "Volume"
	FeatureSentiment  = "sentiment_score"
	FeatureSMA20      = "SMA_20"
	FeatureRSI14      = "RSI_14"
	FeatureMACD       = "MACD"
	FeatureMACDSignal = "MACD_Signal"
	FeatureUpperBand  = "Upper_Band"
	FeatureLowerBand  = "Lower_Band"
)

// Features is the ordered feature list. Order is part of the model contract.
var Features = []string{
	FeatureOpen,
	FeatureHigh,
	FeatureLow,
	FeatureClose,
	FeatureVolume,
	FeatureSentiment,
	FeatureSMA20,
	FeatureRSI14,
	FeatureMACD,
	FeatureMACDSignal,
	FeatureUpperBand,
	FeatureLowerBand,
}

var featureSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Features))
	for _, name := range Features {
		s[name] = struct{}{}
	}
	return s
}()

// FeatureRow maps feature names to float values. A valid row holds exactly
// the schema's names with no NaN values.
type FeatureRow map[string]float64

// Validate checks the row against the schema. Any divergence is a
// SCHEMA_MISMATCH: it signals a bug in a producer, never bad input data.
func (r FeatureRow) Validate() error {
	for _, name := range Features {
		v, ok := r[name]
		if !ok {
			return core.WrapError(core.ErrSchemaMismatch, fmt.Errorf("missing feature %q", name))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.WrapError(core.ErrSchemaMismatch, fmt.Errorf("feature %q is not finite", name))
		}
	}
	for name := range r {
		if _, ok := featureSet[name]; !ok {
			return core.WrapError(core.ErrSchemaMismatch, fmt.Errorf("unknown feature %q", name))
		}
	}
	return nil
}

// Vector returns the row's values in schema order after validating it.
func (r FeatureRow) Vector() ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	vec := make([]float64, len(Features))
	for i, name := range Features {
		vec[i] = r[name]
	}
	return vec, nil
}
