package core

import (
	"fmt"
	"time"
)

// Direction represents the predicted next-day movement
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// DirectionFromClass maps a classifier output class to a direction.
// Class 1 means the next close is expected to be strictly higher.
func DirectionFromClass(class int) Direction {
	if class == 1 {
		return DirectionUp
	}
	return DirectionDown
}

// Day truncates a timestamp to its naive calendar date.
// All date alignment in the pipeline happens on these values.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PriceBar represents one trading day for one symbol
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Validate checks the OHLCV invariants of a bar
func (b PriceBar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("non-positive price in bar at %s", b.Date.Format("2006-01-02"))
	}
	if b.Volume < 0 {
		return fmt.Errorf("negative volume in bar at %s", b.Date.Format("2006-01-02"))
	}
	if b.Low > b.Open || b.Low > b.Close || b.High < b.Open || b.High < b.Close {
		return fmt.Errorf("low/high bounds violated in bar at %s", b.Date.Format("2006-01-02"))
	}
	return nil
}

// Article represents a news headline with its publication time
type Article struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// SentimentDay is the aggregated sentiment for one symbol on one calendar day.
// Score is the mean compound polarity of that day's headlines, in [-1, 1].
type SentimentDay struct {
	Date  time.Time
	Score float64
}

// Prediction is the result of one inference request
type Prediction struct {
	Symbol        string     `json:"symbol"`
	Direction     Direction  `json:"direction"`
	Class         int        `json:"class"`
	Confidence    float64    `json:"confidence"`
	Probabilities [2]float64 `json:"probabilities"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Cached        bool       `json:"cached"`
}
