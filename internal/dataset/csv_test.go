package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"marketpulse/internal/schema"
)

func TestLoadPriceCSV_DropsUnparseableRows(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"Date,Open,High,Low,Close,Adj Close,Volume",
		"2024-01-02,100.5,102.0,99.5,101.0,101.0,1200000",
		"2024-01-03,abc,102.0,99.5,101.0,101.0,1200000",
		"2024-01-04,101.0,103.0,100.0,102.5,102.5,900000",
		"not-a-date,101.0,103.0,100.0,102.5,102.5,900000",
	}, "\n"))

	bars, dropped, err := LoadPriceCSV(in)
	if err != nil {
		t.Fatalf("LoadPriceCSV failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}

	if !bars[0].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", bars[0].Date)
	}
	if bars[0].Close != 101.0 || bars[0].Volume != 1200000 {
		t.Errorf("unexpected bar values: %+v", bars[0])
	}
}

func TestLoadPriceCSV_MissingColumn(t *testing.T) {
	in := strings.NewReader("Date,Open,High,Low,Volume\n2024-01-02,1,2,0.5,100\n")
	if _, _, err := LoadPriceCSV(in); err == nil {
		t.Error("expected error for missing Close column")
	}
}

func TestLoadPriceCSV_FloatVolume(t *testing.T) {
	in := strings.NewReader("Date,Open,High,Low,Close,Volume\n2024-01-02,100,101,99,100.5,1500000.0\n")
	bars, _, err := LoadPriceCSV(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 || bars[0].Volume != 1500000 {
		t.Errorf("unexpected bars: %+v", bars)
	}
}

func TestTable_WriteCSV_Header(t *testing.T) {
	row := Row{
		Ticker:   "RELIANCE.NS",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Features: schema.FeatureRow{},
		Target:   1,
	}
	for i, name := range schema.Features {
		row.Features[name] = float64(i)
	}

	var buf bytes.Buffer
	table := &Table{Rows: []Row{row}}
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	wantHeader := "Date,Open,High,Low,Close,Volume,sentiment_score,SMA_20,RSI_14,MACD,MACD_Signal,Upper_Band,Lower_Band,Target,Ticker"
	if lines[0] != wantHeader {
		t.Errorf("header = %q\nwant %q", lines[0], wantHeader)
	}

	if !strings.HasPrefix(lines[1], "2024-03-01,") {
		t.Errorf("row should start with the date: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], ",1,RELIANCE.NS") {
		t.Errorf("row should end with target and ticker: %q", lines[1])
	}
}

func TestTable_WriteCSV_RejectsInvalidRow(t *testing.T) {
	table := &Table{Rows: []Row{{
		Ticker:   "X",
		Date:     time.Now(),
		Features: schema.FeatureRow{"Open": 1}, // missing the rest
	}}}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err == nil {
		t.Error("expected schema error for incomplete row")
	}
}
