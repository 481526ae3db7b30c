package sentiment

import (
	"sort"
	"time"

	"marketpulse/internal/core"
)

// Scorer scores a single piece of text. Satisfied by *Analyzer.
type Scorer interface {
	Score(text string) float64
}

// Daily reduces article-level scores to one SentimentDay per calendar date
// present in the input. Articles without a title are skipped. Grouping uses
// the naive calendar date of the publication timestamp; output is sorted
// ascending by date. Days with no qualifying articles do not appear.
func Daily(scorer Scorer, articles []core.Article) []core.SentimentDay {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		day := core.Day(a.PublishedAt)
		sums[day] += scorer.Score(a.Title)
		counts[day]++
	}

	days := make([]core.SentimentDay, 0, len(sums))
	for day, sum := range sums {
		days = append(days, core.SentimentDay{
			Date:  day,
			Score: sum / float64(counts[day]),
		})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// Mean returns the arithmetic mean score across all qualifying articles,
// ignoring date boundaries. Used by the serving path, which aggregates a
// single day's headlines into one score. ok is false when nothing scored.
func Mean(scorer Scorer, articles []core.Article) (score float64, ok bool) {
	var sum float64
	var n int
	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		sum += scorer.Score(a.Title)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
