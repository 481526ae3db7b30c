package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"marketpulse/internal/core"
	"marketpulse/internal/schema"
)

// priceColumns are the columns a raw price file must carry. Files written
// by yfinance may also carry Adj Close; anything unrecognized is ignored.
var priceColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// LoadPriceCSV parses a raw price file. Columns are located by header name,
// and any row whose date or OHLCV values fail to parse is dropped rather
// than failing the file; a count of dropped rows is returned alongside.
func LoadPriceCSV(r io.Reader) (bars []core.PriceBar, dropped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading price csv: %w", err)
	}
	if len(records) < 1 {
		return nil, 0, fmt.Errorf("price csv has no header")
	}

	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	for _, name := range priceColumns {
		if _, ok := idx[name]; !ok {
			return nil, 0, fmt.Errorf("price csv missing column %q", name)
		}
	}

	for _, record := range records[1:] {
		bar, ok := parseBar(record, idx)
		if !ok {
			dropped++
			continue
		}
		bars = append(bars, bar)
	}
	return bars, dropped, nil
}

func parseBar(record []string, idx map[string]int) (core.PriceBar, bool) {
	field := func(name string) (string, bool) {
		i := idx[name]
		if i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	dateStr, ok := field("Date")
	if !ok {
		return core.PriceBar{}, false
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return core.PriceBar{}, false
	}

	var vals [4]float64
	for i, name := range []string{"Open", "High", "Low", "Close"} {
		s, ok := field(name)
		if !ok {
			return core.PriceBar{}, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return core.PriceBar{}, false
		}
		vals[i] = v
	}

	volStr, ok := field("Volume")
	if !ok {
		return core.PriceBar{}, false
	}
	// Volume sometimes arrives as a float literal
	vol, err := strconv.ParseFloat(volStr, 64)
	if err != nil {
		return core.PriceBar{}, false
	}

	return core.PriceBar{
		Date:   core.Day(date),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: int64(vol),
	}, true
}

// WritePriceCSV emits bars in the raw price file layout LoadPriceCSV reads.
func WritePriceCSV(w io.Writer, bars []core.PriceBar) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(priceColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, b := range bars {
		record := []string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// WriteCSV emits the training table with the fixed export header:
// the date, the schema's features in schema order, the label, the ticker.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(schema.Features)+3)
	header = append(header, "Date")
	header = append(header, schema.Features...)
	header = append(header, "Target", "Ticker")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range t.Rows {
		vec, err := row.Features.Vector()
		if err != nil {
			return fmt.Errorf("row %s/%s: %w", row.Ticker, row.Date.Format("2006-01-02"), err)
		}

		record := make([]string, 0, len(header))
		record = append(record, row.Date.Format("2006-01-02"))
		for _, v := range vec {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		record = append(record, strconv.Itoa(row.Target), row.Ticker)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
