package infer

import (
	"testing"
	"time"

	"marketpulse/internal/core"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Hour)
	pred := core.Prediction{Symbol: "AAPL", Direction: core.DirectionUp, Class: 1}

	if _, ok := c.Get("AAPL@2024-03-11T10"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Set("AAPL@2024-03-11T10", pred)
	got, ok := c.Get("AAPL@2024-03-11T10")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.Symbol != "AAPL" || got.Direction != core.DirectionUp {
		t.Errorf("got %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Hour)
	clock := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("k", core.Prediction{Symbol: "AAPL"})

	clock = clock.Add(59 * time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry expired before TTL")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped, len = %d", c.Len())
	}
}

func TestCacheSupersedes(t *testing.T) {
	c := NewCache(time.Hour)
	c.Set("k", core.Prediction{Class: 0, Direction: core.DirectionDown})
	c.Set("k", core.Prediction{Class: 1, Direction: core.DirectionUp})

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Class != 1 {
		t.Errorf("Class = %d, want the superseding entry", got.Class)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	c := NewCache(0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
