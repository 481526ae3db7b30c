// Package sentiment reduces headline-level polarity scores into one score
// per calendar day. The per-day reduction is policy-free: days without
// articles are absent from the output, and it is the caller's job to decide
// what absence means (the dataset build drops the day, serving substitutes
// a neutral score).
package sentiment

import "github.com/jonreiter/govader"

// Analyzer scores text with a VADER lexicon model. The trained classifier
// consumed VADER compound scores, so the scoring model is part of the
// train/serve contract and is not swappable.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer creates an analyzer with the built-in lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity of the text, in [-1, 1].
func (a *Analyzer) Score(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}
