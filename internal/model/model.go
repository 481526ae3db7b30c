package model

import (
	"context"

	"marketpulse/internal/schema"
)

// Classifier scores a feature row for next-day direction. Implementations
// are loaded once at startup and treated as immutable afterwards.
type Classifier interface {
	// Predict returns the class label: 1 for up, 0 for down.
	Predict(ctx context.Context, row schema.FeatureRow) (int, error)

	// PredictProba returns class probabilities as [P(down), P(up)].
	PredictProba(ctx context.Context, row schema.FeatureRow) ([2]float64, error)
}
