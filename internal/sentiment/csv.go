package sentiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"marketpulse/internal/core"
)

// The per-symbol sentiment file is a two-column table keyed by calendar
// date, written by the fetch/aggregate step and read back by the dataset
// build.

var csvHeader = []string{"date", "sentiment_score"}

// WriteCSV writes daily sentiment as `date,sentiment_score` rows.
func WriteCSV(w io.Writer, days []core.SentimentDay) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, d := range days {
		record := []string{
			d.Date.Format("2006-01-02"),
			strconv.FormatFloat(d.Score, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a sentiment file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]core.SentimentDay, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sentiment csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	days := make([]core.SentimentDay, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", record[0], err)
		}
		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing score %q: %w", record[1], err)
		}
		days = append(days, core.SentimentDay{Date: core.Day(date), Score: score})
	}
	return days, nil
}
