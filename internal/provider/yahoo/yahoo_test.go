package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketpulse/internal/core"
	"marketpulse/internal/provider"
)

func TestClient_ImplementsPriceProvider(t *testing.T) {
	var _ provider.PriceProvider = (*Client)(nil)
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "RELIANCE.NS", "0700.HK", "M&M.NS", "BAJAJ-AUTO.NS"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%s) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "SYM BOL", "../etc", "WAYTOOLONGSYMBOLNAME.EXCH"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%s) should fail", s)
		}
	}
}

const chartFixture = `{
  "chart": {
    "result": [{
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [100.0, null, 102.0],
          "high":   [101.5, 103.0, 104.0],
          "low":    [99.0, 100.5, 101.5],
          "close":  [101.0, 102.5, 103.5],
          "volume": [1200000, 900000, 1100000]
        }]
      }
    }],
    "error": null
  }
}`

func TestDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	bars, err := c.DailyBars(context.Background(), "RELIANCE.NS", time.Now().AddDate(0, 0, -5), time.Now())
	if err != nil {
		t.Fatalf("DailyBars failed: %v", err)
	}

	// Middle slot has a null open and must be skipped
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 101.0 || bars[1].Close != 103.5 {
		t.Errorf("unexpected closes: %f, %f", bars[0].Close, bars[1].Close)
	}
	if bars[0].Date.Hour() != 0 {
		t.Errorf("bar date should be a naive calendar day, got %v", bars[0].Date)
	}
}

func TestDailyBars_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.DailyBars(context.Background(), "NOPE", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, core.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want UPSTREAM_UNAVAILABLE", err)
	}
}

func TestDailyBars_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -5), time.Now())
	if !errors.Is(err, core.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want UPSTREAM_UNAVAILABLE", err)
	}
}

func TestDailyBars_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	bars, err := c.DailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -5), time.Now())
	if err != nil {
		t.Fatalf("empty result should not error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}
