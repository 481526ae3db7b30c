package core

import (
	"testing"
	"time"
)

func TestPriceBar_Validate(t *testing.T) {
	valid := PriceBar{
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Open:   101.5,
		High:   103.0,
		Low:    100.0,
		Close:  102.2,
		Volume: 1500000,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid bar, got %v", err)
	}

	tests := []struct {
		name string
		bar  PriceBar
	}{
		{"zero close", PriceBar{Open: 100, High: 101, Low: 99, Close: 0, Volume: 10}},
		{"negative volume", PriceBar{Open: 100, High: 101, Low: 99, Close: 100, Volume: -1}},
		{"low above open", PriceBar{Open: 98, High: 101, Low: 99, Close: 100, Volume: 10}},
		{"high below close", PriceBar{Open: 100, High: 101, Low: 99, Close: 102, Volume: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.bar.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDay_TruncatesToCalendarDate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 35, 12, 900, time.UTC)
	d := Day(ts)

	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
		t.Errorf("expected midnight, got %v", d)
	}
	if !d.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v", d)
	}
}

func TestDirectionFromClass(t *testing.T) {
	if DirectionFromClass(1) != DirectionUp {
		t.Error("class 1 should be UP")
	}
	if DirectionFromClass(0) != DirectionDown {
		t.Error("class 0 should be DOWN")
	}
}
