// Package provider defines the upstream collaborators the pipeline consumes:
// a price provider for daily bars and a news provider for headlines. The
// core never retries these calls; any retry or backoff policy belongs on
// the other side of the interface.
package provider

import (
	"context"
	"time"

	"marketpulse/internal/core"
)

// PriceProvider returns daily bars for a symbol, ascending by date. An
// empty result is returned as an empty slice, not an error; the caller
// decides whether absence is fatal for its path.
type PriceProvider interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error)
}

// NewsProvider returns headlines matching a query within a date window.
// Zero articles is a valid result: most symbols have no news most days.
type NewsProvider interface {
	Headlines(ctx context.Context, query string, from, to time.Time) ([]core.Article, error)
}
