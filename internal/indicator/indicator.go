// Package indicator derives technical indicator series from ordered price
// history. All functions are pure: output slices are aligned 1:1 with the
// input, and positions inside an indicator's warm-up window hold NaN rather
// than a value. Nothing here keeps state between calls; the serving path
// recomputes over its window instead of maintaining running aggregates.
package indicator

import (
	"math"

	"marketpulse/internal/core"
)

// Windows holds the lookback lengths for every indicator.
type Windows struct {
	SMA        int
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	Bollinger  int
	BollingerK float64
}

// DefaultWindows returns the lengths the classifier was trained with.
func DefaultWindows() Windows {
	return Windows{
		SMA:        20,
		RSI:        14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		Bollinger:  20,
		BollingerK: 2,
	}
}

// Series holds all derived series for one symbol, aligned 1:1 with the bars
// they were computed from.
type Series struct {
	SMA        []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	UpperBand  []float64
	LowerBand  []float64
}

// Compute derives the full indicator set from a price series ordered
// ascending by date.
func Compute(bars []core.PriceBar, w Windows) Series {
	closes := Closes(bars)
	macd, signal := MACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal)
	upper, lower := Bollinger(closes, w.Bollinger, w.BollingerK)

	return Series{
		SMA:        SMA(closes, w.SMA),
		RSI:        RSI(closes, w.RSI),
		MACD:       macd,
		MACDSignal: signal,
		UpperBand:  upper,
		LowerBand:  lower,
	}
}

// RowDefined reports whether every indicator has a value at index i.
func (s Series) RowDefined(i int) bool {
	for _, series := range [][]float64{s.SMA, s.RSI, s.MACD, s.MACDSignal, s.UpperBand, s.LowerBand} {
		if i < 0 || i >= len(series) || math.IsNaN(series[i]) {
			return false
		}
	}
	return true
}

// Closes extracts closing prices from bars
func Closes(bars []core.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA calculates the trailing simple moving average, inclusive of the
// current value. The first period-1 positions are NaN.
func SMA(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RollingStd calculates the trailing sample standard deviation (n-1 divisor).
func RollingStd(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 1 || len(prices) < period {
		return out
	}

	for i := period - 1; i < len(prices); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += prices[j]
		}
		mean := sum / float64(period)

		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := prices[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(period-1))
	}
	return out
}

// EMA calculates the adjust-free exponential moving average: seeded by the
// first observation, then prev + alpha*(x - prev) with alpha = 2/(span+1).
// Defined from the first position.
func EMA(prices []float64, span int) []float64 {
	out := nans(len(prices))
	if span <= 0 || len(prices) == 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	ema := prices[0]
	out[0] = ema
	for i := 1; i < len(prices); i++ {
		ema += alpha * (prices[i] - ema)
		out[i] = ema
	}
	return out
}

// RSI calculates the relative strength index over trailing day-over-day
// deltas. A position is defined once `period` deltas precede it. When the
// trailing average loss is exactly zero the value is 100; this mirrors the
// behaviour the classifier was trained against and must not change.
func RSI(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	var sumGain, sumLoss float64
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			sumGain += delta
		} else {
			sumLoss -= delta
		}

		// Slide the oldest delta out of the window
		if i > period {
			old := prices[i-period] - prices[i-period-1]
			if old > 0 {
				sumGain -= old
			} else {
				sumLoss += old
			}
		}

		if i >= period {
			avgLoss := sumLoss / float64(period)
			if avgLoss == 0 {
				out[i] = 100.0
				continue
			}
			avgGain := sumGain / float64(period)
			rs := avgGain / avgLoss
			out[i] = 100.0 - 100.0/(1.0+rs)
		}
	}
	return out
}

// MACD calculates the fast/slow EMA difference and its signal line, the
// signal-span EMA of the MACD series itself.
func MACD(prices []float64, fast, slow, signalSpan int) (macd, signal []float64) {
	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signal = EMA(macd, signalSpan)
	return macd, signal
}

// Bollinger calculates the volatility envelope at k sample standard
// deviations around the trailing mean.
func Bollinger(prices []float64, period int, k float64) (upper, lower []float64) {
	sma := SMA(prices, period)
	std := RollingStd(prices, period)

	upper = make([]float64, len(prices))
	lower = make([]float64, len(prices))
	for i := range prices {
		upper[i] = sma[i] + k*std[i]
		lower[i] = sma[i] - k*std[i]
	}
	return upper, lower
}
