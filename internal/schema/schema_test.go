package schema

import (
	"errors"
	"math"
	"testing"

	"marketpulse/internal/core"
)

func validRow() FeatureRow {
	r := make(FeatureRow, len(Features))
	for i, name := range Features {
		r[name] = float64(i + 1)
	}
	return r
}

func TestFeatures_Order(t *testing.T) {
	want := []string{
		"Open", "High", "Low", "Close", "Volume", "sentiment_score",
		"SMA_20", "RSI_14", "MACD", "MACD_Signal", "Upper_Band", "Lower_Band",
	}

	if len(Features) != len(want) {
		t.Fatalf("schema has %d features, want %d", len(Features), len(want))
	}
	for i, name := range want {
		if Features[i] != name {
			t.Errorf("Features[%d] = %q, want %q", i, Features[i], name)
		}
	}
}

func TestFeatureRow_Vector_SchemaOrder(t *testing.T) {
	row := validRow()
	vec, err := row.Vector()
	if err != nil {
		t.Fatalf("Vector failed: %v", err)
	}
	if len(vec) != len(Features) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(Features))
	}
	for i := range Features {
		if vec[i] != float64(i+1) {
			t.Errorf("vec[%d] = %f, want %f", i, vec[i], float64(i+1))
		}
	}
}

func TestFeatureRow_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(FeatureRow)
	}{
		{"missing feature", func(r FeatureRow) { delete(r, FeatureMACD) }},
		{"extra feature", func(r FeatureRow) { r["ATR_14"] = 1.0 }},
		{"nan value", func(r FeatureRow) { r[FeatureRSI14] = math.NaN() }},
		{"inf value", func(r FeatureRow) { r[FeatureClose] = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(row)

			err := row.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, core.ErrSchemaMismatch) {
				t.Errorf("error = %v, want SCHEMA_MISMATCH", err)
			}
		})
	}
}

func TestFeatureRow_Validate_OK(t *testing.T) {
	if err := validRow().Validate(); err != nil {
		t.Errorf("valid row rejected: %v", err)
	}
}
