package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

data:
  type: localfs
  path: "/tmp/marketpulse/data"

providers:
  news:
    api_key: "abc123"

cache:
  ttl: 30m

watchlist:
  - symbol: AAPL
    name: Apple
  - symbol: MSFT
    name: Microsoft
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Data.Path != "/tmp/marketpulse/data" {
		t.Errorf("expected data path, got %s", cfg.Data.Path)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %s", cfg.Cache.TTL)
	}
	if len(cfg.Watchlist) != 2 || cfg.Watchlist[0].Symbol != "AAPL" {
		t.Errorf("unexpected watchlist %+v", cfg.Watchlist)
	}

	// unset sections keep their defaults
	if cfg.Indicators.SMA != 20 {
		t.Errorf("expected default sma window 20, got %d", cfg.Indicators.SMA)
	}
	if cfg.Model.Timeout != 30*time.Second {
		t.Errorf("expected default model timeout, got %s", cfg.Model.Timeout)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_NEWS_KEY", "secret-from-env")

	content := []byte(`
providers:
  news:
    api_key: "${TEST_NEWS_KEY}"
`)
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Providers.News.APIKey != "secret-from-env" {
		t.Errorf("expected env expansion, got %q", cfg.Providers.News.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected default ttl 1h, got %s", cfg.Cache.TTL)
	}
	if cfg.Data.Type != "localfs" {
		t.Errorf("expected default data type localfs, got %s", cfg.Data.Type)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		cfg := *Defaults()
		mutate(&cfg)
		return cfg
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid defaults",
			cfg:     valid(func(c *Config) {}),
			wantErr: false,
		},
		{
			name:    "invalid port - zero",
			cfg:     valid(func(c *Config) { c.Server.Port = 0 }),
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			cfg:     valid(func(c *Config) { c.Server.Port = 70000 }),
			wantErr: true,
		},
		{
			name:    "unknown data type",
			cfg:     valid(func(c *Config) { c.Data.Type = "gcs" }),
			wantErr: true,
		},
		{
			name:    "s3 without bucket",
			cfg:     valid(func(c *Config) { c.Data.Type = "s3" }),
			wantErr: true,
		},
		{
			name:    "negative cache ttl",
			cfg:     valid(func(c *Config) { c.Cache.TTL = -time.Minute }),
			wantErr: true,
		},
		{
			name:    "zero indicator window",
			cfg:     valid(func(c *Config) { c.Indicators.RSI = 0 }),
			wantErr: true,
		},
		{
			name:    "macd fast not shorter than slow",
			cfg:     valid(func(c *Config) { c.Indicators.MACDFast = 26 }),
			wantErr: true,
		},
		{
			name:    "watchlist entry without symbol",
			cfg:     valid(func(c *Config) { c.Watchlist = []WatchlistItem{{Name: "Apple"}} }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompany(t *testing.T) {
	cfg := Defaults()
	cfg.Watchlist = []WatchlistItem{{Symbol: "AAPL", Name: "Apple"}}

	if name, ok := cfg.Company("AAPL"); !ok || name != "Apple" {
		t.Errorf("Company(AAPL) = %q, %v", name, ok)
	}
	if _, ok := cfg.Company("TSLA"); ok {
		t.Error("Company(TSLA) should not resolve")
	}
}
