package infer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"marketpulse/internal/core"
	"marketpulse/internal/indicator"
	"marketpulse/internal/metrics"
	"marketpulse/internal/model"
	"marketpulse/internal/provider"
	"marketpulse/internal/sentiment"
)

// historyDays is the price window fetched per request. Wide enough that the
// slowest indicator warm-up always leaves defined rows on a normal trading
// calendar.
const historyDays = 90

// Predictor runs the full serving pipeline for one symbol: fetch prices and
// headlines, aggregate sentiment, build the feature vector, call the
// classifier, cache the result.
type Predictor struct {
	prices   provider.PriceProvider
	news     provider.NewsProvider
	analyzer sentiment.Scorer
	model    model.Classifier
	cache    *Cache
	metrics  *metrics.Registry
	logger   *zap.Logger
	windows  indicator.Windows
	group    singleflight.Group
	now      func() time.Time
}

// NewPredictor wires the serving pipeline together.
func NewPredictor(
	prices provider.PriceProvider,
	news provider.NewsProvider,
	analyzer sentiment.Scorer,
	classifier model.Classifier,
	cache *Cache,
	reg *metrics.Registry,
	logger *zap.Logger,
	windows indicator.Windows,
) *Predictor {
	return &Predictor{
		prices:   prices,
		news:     news,
		analyzer: analyzer,
		model:    classifier,
		cache:    cache,
		metrics:  reg,
		logger:   logger,
		windows:  windows,
		now:      time.Now,
	}
}

// cacheKey buckets requests by hour so the first request of an hour does
// the work and the rest of the hour serves the stored result.
func cacheKey(symbol string, now time.Time) string {
	return symbol + "@" + now.UTC().Truncate(time.Hour).Format("2006-01-02T15")
}

// Predict returns the next-day direction prediction for symbol. company is
// the news search query; when empty the symbol itself is used. Concurrent
// misses for the same symbol and hour collapse into one upstream fetch and
// one model call.
func (p *Predictor) Predict(ctx context.Context, symbol, company string) (core.Prediction, error) {
	now := p.now()
	key := cacheKey(symbol, now)

	if pred, ok := p.cache.Get(key); ok {
		p.metrics.RecordCacheHit()
		pred.Cached = true
		return pred, nil
	}
	p.metrics.RecordCacheMiss()

	v, err, shared := p.group.Do(key, func() (any, error) {
		pred, err := p.predict(ctx, symbol, company, now)
		if err != nil {
			p.metrics.RecordPredictionError(errorCode(err))
			return nil, err
		}
		p.cache.Set(key, pred)
		p.metrics.RecordPrediction(symbol, string(pred.Direction))
		return pred, nil
	})
	if err != nil {
		return core.Prediction{}, err
	}

	pred := v.(core.Prediction)
	pred.Cached = shared
	return pred, nil
}

func (p *Predictor) predict(ctx context.Context, symbol, company string, now time.Time) (core.Prediction, error) {
	start := time.Now()
	bars, err := p.prices.DailyBars(ctx, symbol, now.AddDate(0, 0, -historyDays), now)
	p.metrics.ObserveProvider("price", time.Since(start).Seconds())
	if err != nil {
		return core.Prediction{}, fmt.Errorf("fetching prices for %s: %w", symbol, err)
	}

	score := p.sentimentScore(ctx, symbol, company, now)

	row, err := BuildVector(bars, score, p.windows)
	if err != nil {
		return core.Prediction{}, err
	}

	class, err := p.model.Predict(ctx, row)
	if err != nil {
		return core.Prediction{}, err
	}
	probs, err := p.model.PredictProba(ctx, row)
	if err != nil {
		return core.Prediction{}, err
	}

	pred := core.Prediction{
		Symbol:        symbol,
		Direction:     core.DirectionFromClass(class),
		Class:         class,
		Confidence:    probs[class],
		Probabilities: probs,
		GeneratedAt:   now.UTC(),
	}

	p.logger.Info("prediction generated",
		zap.String("symbol", symbol),
		zap.String("direction", string(pred.Direction)),
		zap.Float64("confidence", pred.Confidence),
		zap.Float64("sentiment", score))
	return pred, nil
}

// sentimentScore aggregates the last day's headlines into one compound
// score. No headlines, or a news outage, degrades to neutral instead of
// failing the prediction.
func (p *Predictor) sentimentScore(ctx context.Context, symbol, company string, now time.Time) float64 {
	query := company
	if query == "" {
		query = symbol
	}

	start := time.Now()
	articles, err := p.news.Headlines(ctx, query, now.AddDate(0, 0, -1), now)
	p.metrics.ObserveProvider("news", time.Since(start).Seconds())
	if err != nil {
		p.logger.Warn("news fetch failed, using neutral sentiment",
			zap.String("symbol", symbol), zap.Error(err))
		return 0
	}

	score, ok := sentiment.Mean(p.analyzer, articles)
	if !ok {
		return 0
	}
	return score
}

func errorCode(err error) string {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr.Code
	}
	return "INTERNAL"
}
